// Package app builds the dependency graph and runs the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/transport/middleware"
	"github.com/dailylaw/ledge-backend/internal/transport/rest"
)

const limiterCleanup = time.Minute

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// for at most the configured shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	limiter := middleware.NewRateLimiter(limiterCleanup)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      c.Router(limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// Router builds the HTTP handler tree over the container's services.
func (c *Container) Router(limiter *middleware.RateLimiter) http.Handler {
	cfg, log := c.Config, c.Log

	return rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(map[string]rest.Pinger{"database": c.Pool}, BuildVersion()),
		Cron: rest.NewCronHandler(rest.CronDrivers{
			Ingest:   c.Ingest,
			Federal:  c.Federal,
			State:    c.State,
			Matching: c.Matching,
			Tracker:  c.Tracker,
			Actions:  c.Congress,
			Alerts:   c.Notify,
		}, log),
		Subscriber: rest.NewSubscriberHandler(c.Subscriber, c.Matching, rest.CookieOptions{
			Codec:  c.Cookie,
			Secure: strings.HasPrefix(cfg.Email.SiteURL, "https://"),
			MaxAge: cfg.Identity.CookieTTL,
		}, log),
		Explore: rest.NewExploreHandler(c.Matching, log),
		Article: rest.NewArticleHandler(c.Article, log),
	}, rest.RouterConfig{
		CORS:       cfg.CORS,
		CronSecret: cfg.Cron.Secret,
		ExploreRPM: cfg.Server.ExploreRPM,
		Limiter:    limiter,
		Cookie:     c.Cookie,
	}, log)
}
