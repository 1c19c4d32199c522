package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/svgflat"
	httpAdapter "github.com/aretw0/svgflat/internal/adapters/http"
	"github.com/aretw0/svgflat/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes flatten, convert and graph as a JSON API over HTTP. Request paths
refer to files on the host running the server. GET /metrics serves Prometheus
metrics and GET /openapi.yaml describes the API.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack(cmd)
		if err != nil {
			return err
		}
		defer closeStack(stack)

		if err := stack.CheckTools(); err != nil {
			stack.Logger.Warn("External tools unavailable, conversions will fail", "err", err)
		}

		port := stack.Config.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		handler := httpAdapter.NewHandler(stack.Flattener,
			httpAdapter.WithLocks(stack.Locks),
			httpAdapter.WithMetrics(stack.Metrics),
			httpAdapter.WithLogger(stack.Logger),
		)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, svgflat.Version)
		}

		sigCtx := signalContext()
		defer sigCtx.Cancel()

		g, ctx := errgroup.WithContext(sigCtx)
		g.Go(func() error {
			stack.Logger.Info("Starting svgflat server", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			stack.Logger.Info("Start shutdown", "signal", sigCtx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				stack.Logger.Warn("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			stack.Logger.Info("svgflat server stopped gracefully")
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
