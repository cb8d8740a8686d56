// Package congress fetches federal bills from the Congress.gov API v3.
package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dailylaw/ledge-backend/internal/adapter/provider/httputil"
	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/domain"
)

const sourceName = "federal"

var externalIDPattern = regexp.MustCompile(`^([A-Z]+)(\d+)-(\d+)$`)

// Client talks to Congress.gov.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.CongressConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "congress"),
	}
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return NewClient(config.CongressConfig{BaseURL: baseURL, APIKey: apiKey, Timeout: 10 * time.Second}, logger)
}

// Name identifies the source in logs and ingest cursors.
func (c *Client) Name() string { return sourceName }

// Source returns the bill source this client produces.
func (c *Client) Source() domain.BillSource { return domain.SourceFederal }

// ExternalID builds the federal identifier, e.g. HR1234-119.
func ExternalID(billType, number string, congress int) string {
	return fmt.Sprintf("%s%s-%d", strings.ToUpper(billType), number, congress)
}

// ParseExternalID splits a federal identifier into type, number and congress.
func ParseExternalID(id string) (billType, number string, congress int, err error) {
	m := externalIDPattern.FindStringSubmatch(id)
	if m == nil {
		return "", "", 0, fmt.Errorf("congress: malformed external id %q", id)
	}
	congress, _ = strconv.Atoi(m[3])
	return m[1], m[2], congress, nil
}

// FetchRecent returns bills ordered by most recent update.
func (c *Client) FetchRecent(ctx context.Context, limit, offset int) ([]domain.Bill, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("sort", "updateDate desc")

	var resp listResponse
	found, err := c.getJSON(ctx, c.baseURL+"/bill", q, &resp, "list")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	bills := make([]domain.Bill, 0, len(resp.Bills))
	for _, b := range resp.Bills {
		if b.Type == "" || b.Number == "" {
			continue
		}
		bills = append(bills, b.toDomain())
	}

	c.log.DebugContext(ctx, "congress list", slog.Int("offset", offset), slog.Int("bills", len(bills)))
	return bills, nil
}

// FetchBillAction returns the latest action of a bill, or nil when the bill
// or its action is not available yet.
func (c *Client) FetchBillAction(ctx context.Context, externalID string) (*domain.BillAction, error) {
	billType, number, congress, err := ParseExternalID(externalID)
	if err != nil {
		return nil, err
	}

	var resp detailResponse
	found, err := c.getJSON(ctx, c.billURL(billType, number, congress), nil, &resp, externalID)
	if err != nil || !found {
		return nil, err
	}
	if resp.Bill.LatestAction == nil || resp.Bill.LatestAction.Text == "" {
		return nil, nil
	}
	return resp.Bill.LatestAction.toDomain(), nil
}

// FetchBillText returns the plain text of the newest formatted text
// version, or "" when none is published.
func (c *Client) FetchBillText(ctx context.Context, externalID string) (string, error) {
	billType, number, congress, err := ParseExternalID(externalID)
	if err != nil {
		return "", err
	}

	var resp textResponse
	found, err := c.getJSON(ctx, c.billURL(billType, number, congress)+"/text", nil, &resp, externalID)
	if err != nil || !found {
		return "", err
	}

	textURL := resp.formattedTextURL()
	if textURL == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textURL, nil)
	if err != nil {
		return "", fmt.Errorf("congress: create text request: %w", err)
	}
	httpResp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.log, externalID)
	if err != nil {
		return "", fmt.Errorf("congress: text request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("congress: text: unexpected status %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("congress: read text: %w", err)
	}
	text, err := httputil.HTMLToText(string(body))
	if err != nil {
		return "", fmt.Errorf("congress: parse text: %w", err)
	}
	return text, nil
}

func (c *Client) billURL(billType, number string, congress int) string {
	return fmt.Sprintf("%s/bill/%d/%s/%s", c.baseURL, congress, strings.ToLower(billType), number)
}

// getJSON decodes a JSON response into dst. found is false on 404.
func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, dst any, key string) (bool, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("format", "json")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("congress: create request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.log, key)
	if err != nil {
		c.log.ErrorContext(ctx, "congress request failed", slog.String("key", key), slog.String("error", err.Error()))
		return false, fmt.Errorf("congress: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("congress: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return false, fmt.Errorf("congress: decode json: %w", err)
	}
	return true, nil
}
