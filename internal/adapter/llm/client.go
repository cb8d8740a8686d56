// Package llm wraps the Anthropic Messages API behind a single Complete call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/provider"
)

// Client is safe for concurrent use. The SDK client is built on first use.
type Client struct {
	cfg config.LLMConfig
	log *slog.Logger

	once   sync.Once
	client anthropic.Client
}

// NewClient creates a Client. No network activity happens until Complete.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, log: logger.With("adapter", "llm")}
}

func (c *Client) sdk() anthropic.Client {
	c.once.Do(func() {
		opts := []option.RequestOption{
			option.WithAPIKey(c.cfg.APIKey),
			option.WithMaxRetries(c.cfg.MaxRetries),
		}
		if c.cfg.Timeout > 0 {
			opts = append(opts, option.WithRequestTimeout(c.cfg.Timeout))
		}
		if c.cfg.BaseURL != "" {
			base := c.cfg.BaseURL
			if !strings.HasSuffix(base, "/") {
				base += "/"
			}
			opts = append(opts, option.WithBaseURL(base))
		}
		c.client = anthropic.NewClient(opts...)
	})
	return c.client
}

// Complete sends req and returns the concatenated text of the reply.
// Rate-limit and overload refusals wrap domain.ErrRateLimited.
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: req.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	start := time.Now()
	client := c.sdk()
	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		if isRateLimit(err) {
			return "", fmt.Errorf("llm: %w: %v", domain.ErrRateLimited, err)
		}
		return "", fmt.Errorf("llm: messages.new: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("llm: empty response")
	}

	c.log.DebugContext(ctx, "llm completion",
		slog.Int64("max_tokens", req.MaxTokens),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
		slog.Duration("duration", time.Since(start)),
	)
	return sb.String(), nil
}

// statusOverloaded is Anthropic's non-standard "overloaded" status.
const statusOverloaded = 529

func isRateLimit(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode == statusOverloaded
	}
	return false
}
