// Package newsapi looks up recent news coverage of a bill on NewsAPI.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dailylaw/ledge-backend/internal/adapter/provider/httputil"
	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/domain"
)

// maxQueryLen keeps the search phrase well under the API's 500 character limit.
const maxQueryLen = 120

// Client searches NewsAPI's everything endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	limit      int
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from config.
func NewClient(cfg config.NewsConfig, logger *slog.Logger) *Client {
	limit := cfg.MaxArticles
	if limit <= 0 {
		limit = 3
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limit:      limit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "newsapi"),
	}
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return NewClient(config.NewsConfig{BaseURL: baseURL, APIKey: apiKey, Timeout: 10 * time.Second}, logger)
}

// Name identifies the context source in run logs.
func (c *Client) Name() string { return "news" }

type response struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}

// line renders one article as a background line.
func (a article) line() string {
	var meta []string
	if a.Source.Name != "" {
		meta = append(meta, a.Source.Name)
	}
	if len(a.PublishedAt) >= 10 {
		meta = append(meta, a.PublishedAt[:10])
	}

	var sb strings.Builder
	sb.WriteString("News")
	if len(meta) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(meta, ", "))
	}
	sb.WriteString(": ")
	sb.WriteString(oneLine(a.Title))
	if d := oneLine(a.Description); d != "" {
		sb.WriteString(". ")
		sb.WriteString(d)
	}
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Query builds the search phrase for a bill from its title.
func Query(bill domain.Bill) string {
	q := oneLine(bill.Title)
	if len(q) > maxQueryLen {
		q = q[:maxQueryLen]
		if i := strings.LastIndex(q, " "); i > 0 {
			q = q[:i]
		}
	}
	return q
}

// Background returns one line per recent article about bill. A bill with no
// title yields nothing.
func (c *Client) Background(ctx context.Context, bill domain.Bill) ([]string, error) {
	query := Query(bill)
	if query == "" {
		return nil, nil
	}

	q := url.Values{
		"q":        {query},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"pageSize": {strconv.Itoa(c.limit)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.log, bill.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("newsapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("newsapi: decode json (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || body.Code == "rateLimited" {
		return nil, fmt.Errorf("newsapi: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return nil, fmt.Errorf("newsapi: status %d: %s %s", resp.StatusCode, body.Code, body.Message)
	}

	lines := make([]string, 0, len(body.Articles))
	for _, a := range body.Articles {
		if strings.TrimSpace(a.Title) == "" || a.Title == "[Removed]" {
			continue
		}
		lines = append(lines, a.line())
		if len(lines) == c.limit {
			break
		}
	}

	c.log.DebugContext(ctx, "news background",
		slog.String("external_id", bill.ExternalID), slog.Int("articles", len(lines)))
	return lines, nil
}
