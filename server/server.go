// Package server exposes the tutor over HTTP: a browser chat app and a
// JSON REST API.
package server

import (
	"context"
	"embed"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/xhad/journey/internal/types"
	"github.com/xhad/journey/pkg/conversation"
)

//go:embed static
var static embed.FS

// Engine is the chat model the handlers talk to. *llm.ChatEngine satisfies it.
type Engine interface {
	types.Completer
	types.Generator
	conversation.Streamer
	ModelName() string
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
