package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/hermes/internal/rules"
	"github.com/wonny/hermes/internal/screener"
)

// batchCmd runs the full daily pipeline once: indicators, all rule
// bundles, backtest seed + refresh.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "일일 배치 1회 실행 (지표 + 스크리닝 + 백테스트)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		today := time.Now()
		markets := a.markets()

		rows, _, err := a.runner.Run(ctx, markets)
		if err != nil {
			return err
		}

		var seeded int
		for _, bundle := range rules.All() {
			candidates := screener.Evaluate(rows, bundle, screener.Options{
				Markets: markets,
				TopN:    a.resultLimit(),
				AsOf:    today,
			})
			if err := a.results.ReplaceResults(ctx, bundle.Rule, candidates); err != nil {
				return err
			}
			if err := a.tracker.Seed(ctx, candidates, today); err != nil {
				return err
			}
			seeded += len(candidates)
		}

		snapshot, err := a.meta.Snapshot(ctx)
		if err != nil {
			return err
		}
		if err := a.tracker.Refresh(ctx, snapshot, today); err != nil {
			return err
		}

		a.log.WithField("candidates", seeded).Info("배치 완료")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
