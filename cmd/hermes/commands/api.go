package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/hermes/internal/api"
	"github.com/wonny/hermes/internal/api/handlers"
)

// apiCmd serves the read-only HTTP API over the materialized stores.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "읽기 전용 API 서버 실행",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		router := api.NewRouter(
			handlers.NewIndicatorHandler(a.rows, a.marker, a.log),
			handlers.NewResultHandler(a.results, a.log),
			handlers.NewBacktestHandler(a.backtests, a.log),
			a.log,
		)
		server := api.New(a.cfg, a.log, router)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(apiCmd)
}
