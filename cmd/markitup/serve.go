package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-markitup/internal/di"
	"github.com/goliatone/go-markitup/internal/logging"
	"github.com/goliatone/go-markitup/internal/runtimeconfig"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Path to a YAML configuration file")
	addr := fs.String("addr", "", "Listen address (defaults to server.addr)")
	migrate := fs.Bool("migrate", true, "Apply the document schema before serving")
	if err := fs.Parse(args); err != nil {
		return err
	}

	container, err := openContainer(*configPath, func(cfg *runtimeconfig.Config) {
		if *addr != "" {
			cfg.Server.Addr = *addr
		}
	})
	if err != nil {
		return err
	}
	defer container.Close()

	if *migrate {
		if err := container.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	router, err := newRouter(container)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              container.Config.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := logging.ModuleLogger(container.LoggerProvider(), "markitup")
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("server.listening", "addr", server.Addr)
	fmt.Fprintf(stdout, "markitup listening on %s\n", server.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server.stopped")
	return nil
}

func newRouter(container *di.Container) (chi.Router, error) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	if err := container.API().Register(router); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}
	return router, nil
}
