package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "백테스트 추적 관리",
}

// backtestRefreshCmd advances all pending records.
var backtestRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "pending 레코드 갱신 및 만기 완료 처리",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.meta.Snapshot(ctx)
		if err != nil {
			return err
		}
		return a.tracker.Refresh(ctx, snapshot, nowUTC())
	},
}

// backtestStatusCmd prints both tables.
var backtestStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "pending/완료 테이블 요약 출력",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		pending, err := a.backtests.ListPending(ctx)
		if err != nil {
			return err
		}
		completed, err := a.backtests.ListCompleted(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("pending: %d\n", len(pending))
		for _, rec := range pending {
			fmt.Printf("  [%s] %s %s base=%s close=%.2f → %.2f (%.2f%%)\n",
				rec.RuleType, rec.Market, rec.Symbol,
				rec.BaseDate.Format("2006-01-02"), rec.BaseClose, rec.LatestClose, rec.ChangeRate)
		}

		fmt.Printf("completed: %d\n", len(completed))
		for _, rec := range completed {
			fmt.Printf("  [%s] %s %s base=%s final=%.2f (%.2f%%) 5%%=%s 10%%=%s\n",
				rec.RuleType, rec.Market, rec.Symbol,
				rec.BaseDate.Format("2006-01-02"), rec.FinalClose, rec.FinalChangeRate,
				orDash(rec.Date5Pct), orDash(rec.Date10Pct))
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	backtestCmd.AddCommand(backtestRefreshCmd, backtestStatusCmd)
	rootCmd.AddCommand(backtestCmd)
}
