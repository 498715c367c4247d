// Package server owns the listen/serve/shutdown lifecycle of the HTTP API
// and the optional gRPC health listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/lojinha/pkg/grpc"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	HTTPPort string
	// GRPCPort is optional; empty disables the gRPC listener.
	GRPCPort string
}

// Run serves handler until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, handler http.Handler, opts Options) error {
	lis, err := net.Listen("tcp", ":"+opts.HTTPPort)
	if err != nil {
		return fmt.Errorf("server: listen on :%s: %w", opts.HTTPPort, err)
	}
	return Serve(ctx, lis, handler, opts.GRPCPort)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, lis net.Listener, handler http.Handler, grpcPort string) error {
	var gs *grpc.Server
	if grpcPort != "" {
		gs = grpc.New()
		if err := gs.Start(grpcPort); err != nil {
			_ = lis.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		gs.Stop()
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	gs.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
