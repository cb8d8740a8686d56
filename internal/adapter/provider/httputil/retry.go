// Package httputil holds the request helpers shared by the outbound HTTP adapters.
package httputil

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// RetryDelay is the pause before the single retry.
var RetryDelay = 500 * time.Millisecond

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoWithRetry executes req and retries once on a network error or 5xx.
// The request must be safe to resend (no body, or GetBody set).
func DoWithRetry(ctx context.Context, client Doer, req *http.Request, log *slog.Logger, key string) (*http.Response, error) {
	resp, err := client.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	log.WarnContext(ctx, "retrying request", slog.String("key", key), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(RetryDelay):
	}

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind body: %w", err)
		}
		retry.Body = body
	}
	return client.Do(retry)
}
