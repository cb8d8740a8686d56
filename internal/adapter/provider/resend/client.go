// Package resend delivers email through the Resend HTTP API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dailylaw/ledge-backend/internal/adapter/provider/httputil"
	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/provider"
)

// ErrNotConfigured is returned by Send when no API key is set.
var ErrNotConfigured = errors.New("resend: api key not configured")

// Client sends email via Resend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.EmailConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "resend"),
	}
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return NewClient(config.EmailConfig{BaseURL: baseURL, APIKey: apiKey, Timeout: 5 * time.Second}, logger)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send delivers one email and returns the provider's message id.
func (c *Client) Send(ctx context.Context, e provider.Email) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if len(e.To) == 0 {
		return "", errors.New("resend: no recipients")
	}

	payload, err := json.Marshal(sendRequest{From: e.From, To: e.To, Subject: e.Subject, HTML: e.HTML})
	if err != nil {
		return "", fmt.Errorf("resend: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("resend: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.log, e.Subject)
	if err != nil {
		return "", fmt.Errorf("resend: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("resend: read body: %w", err)
	}

	var out sendResponse
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("resend: status %d: %s", resp.StatusCode, msg)
	}

	c.log.DebugContext(ctx, "email sent", slog.String("id", out.ID), slog.Int("recipients", len(e.To)))
	return out.ID, nil
}
