package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nontransitive/api"
	"nontransitive/config"

	log "github.com/sirupsen/logrus"
)

// Serve runs the HTTP API until ctx is cancelled
func Serve(ctx context.Context, cfg *config.Config, args []string) error {
	a, err := newApp(ctx, cfg, args)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(a.game, a.fairness).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	log.Info("Shutdown completed")
	return nil
}
