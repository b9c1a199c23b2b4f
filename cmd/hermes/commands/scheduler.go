package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/hermes/internal/scheduler"
	"github.com/wonny/hermes/internal/scheduler/jobs"
)

// schedulerCmd runs the daily batch on its cron schedule until stopped.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 모드 (cron 기반 일일 배치)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		sched := scheduler.New(a.log)
		job := jobs.NewBatchJob(
			a.runner, a.results, a.tracker, a.meta,
			a.markets(), a.resultLimit(), a.cfg.Batch.Schedule, a.log,
		)
		if err := sched.AddJob(job); err != nil {
			return err
		}

		sched.Start()
		defer sched.Stop()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		return nil
	},
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}
