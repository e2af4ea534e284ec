package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviesync/internal/server"
	"github.com/desertthunder/moviesync/internal/shared"
)

const shutdownTimeout = 10 * time.Second

// serverAddr returns the --addr flag when set, else the configured address.
func (r *Runner) serverAddr(cmd *cli.Command) string {
	if a := cmd.String("addr"); a != "" {
		return a
	}
	return r.config.Server.Addr
}

// Serve exposes the store over HTTP until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	var runner server.Runner
	if !cmd.Bool("read-only") {
		runner = r.newPipeline(cmd)
	}

	api := server.NewAPI(r.newSynchronizer(r.databasePath(cmd)), runner, shared.WithLogger(r.logger, "component", "http"))
	srv := &http.Server{
		Addr:              r.serverAddr(cmd),
		Handler:           server.NewHandler(api),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", srv.Addr, "read_only", runner == nil)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
