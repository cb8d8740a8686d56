// Package legiscan fetches state bills from the LegiScan API.
package legiscan

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dailylaw/ledge-backend/internal/adapter/provider/httputil"
	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/domain"
)

// Client reads one state's legislation from LegiScan.
type Client struct {
	baseURL    string
	apiKey     string
	state      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for a two-letter state code.
func NewClient(cfg config.LegiScanConfig, state string, logger *slog.Logger) *Client {
	state = strings.ToUpper(state)
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		state:      state,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "legiscan", "state", state),
	}
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey, state string, logger *slog.Logger) *Client {
	return NewClient(config.LegiScanConfig{BaseURL: baseURL, APIKey: apiKey, Timeout: 10 * time.Second}, state, logger)
}

// Name identifies the source in logs and ingest cursors.
func (c *Client) Name() string { return "legiscan:" + c.state }

// Source returns the bill source this client produces.
func (c *Client) Source() domain.BillSource { return domain.SourceLegiScan }

// ExternalID builds the state identifier, e.g. CA-AB123-1893741.
func ExternalID(state, number string, billID int) string {
	return fmt.Sprintf("%s-%s-%d", strings.ToUpper(state), number, billID)
}

// ParseBillID extracts the LegiScan bill id from an external identifier.
func ParseBillID(externalID string) (int, error) {
	i := strings.LastIndex(externalID, "-")
	if i < 0 {
		return 0, fmt.Errorf("legiscan: malformed external id %q", externalID)
	}
	id, err := strconv.Atoi(externalID[i+1:])
	if err != nil || id <= 0 || strings.Count(externalID, "-") < 2 {
		return 0, fmt.Errorf("legiscan: malformed external id %q", externalID)
	}
	return id, nil
}

// FetchRecent returns the state's bills ordered by most recent action.
// LegiScan serves the master list in one page, so limit and offset are
// applied after sorting.
func (c *Client) FetchRecent(ctx context.Context, limit, offset int) ([]domain.Bill, error) {
	var resp masterListResponse
	if err := c.call(ctx, url.Values{"op": {"getMasterList"}, "state": {c.state}}, &resp, "masterlist"); err != nil {
		return nil, err
	}

	entries := resp.entries()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].LastActionDate != entries[j].LastActionDate {
			return entries[i].LastActionDate > entries[j].LastActionDate
		}
		return entries[i].BillID > entries[j].BillID
	})

	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	bills := make([]domain.Bill, len(entries))
	for i, e := range entries {
		bills[i] = e.toDomain(c.state)
	}

	c.log.DebugContext(ctx, "legiscan list", slog.Int("offset", offset), slog.Int("bills", len(bills)))
	return bills, nil
}

// FetchBillAction returns the newest history entry of a bill, or nil when
// the bill has no history yet.
func (c *Client) FetchBillAction(ctx context.Context, externalID string) (*domain.BillAction, error) {
	detail, err := c.fetchBill(ctx, externalID)
	if err != nil || detail == nil {
		return nil, err
	}
	return detail.latestAction(), nil
}

// FetchBillText returns the plain text of the newest text document, or ""
// when no machine-readable text is published.
func (c *Client) FetchBillText(ctx context.Context, externalID string) (string, error) {
	detail, err := c.fetchBill(ctx, externalID)
	if err != nil || detail == nil {
		return "", err
	}

	doc := detail.newestText()
	if doc == nil {
		return "", nil
	}

	var resp textResponse
	if err := c.call(ctx, url.Values{"op": {"getBillText"}, "id": {strconv.Itoa(doc.DocID)}}, &resp, externalID); err != nil {
		return "", err
	}
	if resp.Text == nil || resp.Text.Doc == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Text.Doc)
	if err != nil {
		return "", fmt.Errorf("legiscan: decode text: %w", err)
	}

	switch {
	case strings.Contains(resp.Text.Mime, "html"):
		text, err := httputil.HTMLToText(string(raw))
		if err != nil {
			return "", fmt.Errorf("legiscan: parse text: %w", err)
		}
		return text, nil
	case strings.HasPrefix(resp.Text.Mime, "text/"):
		return httputil.NormalizeSpace(string(raw)), nil
	default:
		c.log.InfoContext(ctx, "legiscan text not machine readable",
			slog.String("external_id", externalID), slog.String("mime", resp.Text.Mime))
		return "", nil
	}
}

func (c *Client) fetchBill(ctx context.Context, externalID string) (*billDetail, error) {
	id, err := ParseBillID(externalID)
	if err != nil {
		return nil, err
	}

	var resp billResponse
	if err := c.call(ctx, url.Values{"op": {"getBill"}, "id": {strconv.Itoa(id)}}, &resp, externalID); err != nil {
		return nil, err
	}
	return resp.Bill, nil
}

// call performs one LegiScan operation. A 404 leaves dst untouched.
func (c *Client) call(ctx context.Context, q url.Values, dst any, key string) error {
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("legiscan: create request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.log, key)
	if err != nil {
		c.log.ErrorContext(ctx, "legiscan request failed", slog.String("key", key), slog.String("error", err.Error()))
		return fmt.Errorf("legiscan: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("legiscan: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("legiscan: read body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("legiscan: decode json: %w", err)
	}
	if !strings.EqualFold(env.Status, "OK") {
		msg := "unknown error"
		if env.Alert != nil && env.Alert.Message != "" {
			msg = env.Alert.Message
		}
		return fmt.Errorf("legiscan: %s: %s", q.Get("op"), msg)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("legiscan: decode %s: %w", q.Get("op"), err)
	}
	return nil
}
