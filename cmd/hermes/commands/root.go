package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	useUS bool
	useKR bool
	topN  int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "Hermes - 시그널 스크리닝 엔진",
	Long: `Hermes 시그널 스크리닝 엔진

일일 봉 데이터에서 기술 지표를 계산하고, 룰 번들로 매수/매도
후보를 선별하며, 선별 결과의 사후 성과를 추적한다.

Usage:
  go run ./cmd/hermes [command]

Examples:
  go run ./cmd/hermes batch
  go run ./cmd/hermes screen --rule short --top-n 20
  go run ./cmd/hermes backtest refresh
  go run ./cmd/hermes api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useUS, "use-us", false, "include the US market (overrides BATCH_USE_US)")
	rootCmd.PersistentFlags().BoolVar(&useKR, "use-kr", false, "include the KR market (overrides BATCH_USE_KR)")
	rootCmd.PersistentFlags().IntVar(&topN, "top-n", 0, "cap result size (0 = config default)")
}
