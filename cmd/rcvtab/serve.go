package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	httpserver "github.com/ranked-vote/stv.vote/reportsvc/http"
)

// serveHTTP runs server's mux until the process receives SIGINT/SIGTERM,
// then shuts down cleanly.
func serveHTTP(ctx context.Context, addr string, server *httpserver.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{Addr: addr, Handler: server.Mux}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
