package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/hermes/internal/contracts"
	"github.com/wonny/hermes/internal/rules"
	"github.com/wonny/hermes/internal/screener"
)

var (
	screenRule   string
	screenLegacy bool
	screenSave   bool
)

// screenCmd screens the materialized store with one rule bundle.
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "저장된 지표로 룰 번들 스크리닝",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		bundle, err := resolveBundle(screenRule, screenLegacy)
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		s := screener.New(a.rows, a.log)
		candidates, err := s.Screen(ctx, bundle, screener.Options{
			Markets: a.markets(),
			TopN:    a.resultLimit(),
			AsOf:    time.Now(),
		})
		if err != nil {
			return err
		}

		for i, c := range candidates {
			fmt.Printf("%3d. [%s] %s %s  score=%d tier=%s close=%.2f\n",
				i+1, c.Row.Market, c.Row.Symbol, c.Row.Name, c.Score, c.Tier, c.BaseClose)
		}

		if screenSave {
			return a.results.ReplaceResults(ctx, bundle.Rule, candidates)
		}
		return nil
	},
}

func resolveBundle(rule string, legacy bool) (rules.Bundle, error) {
	if legacy {
		if rule != "" && contracts.RuleType(rule) != contracts.RuleShort {
			return rules.Bundle{}, fmt.Errorf("legacy bundle exists only for the short rule")
		}
		return rules.LegacyShort(), nil
	}

	switch contracts.RuleType(rule) {
	case contracts.RuleShort:
		return rules.ShortTerm(), nil
	case contracts.RuleMid:
		return rules.MidTerm(), nil
	case contracts.RuleSell:
		return rules.Sell(), nil
	default:
		return rules.Bundle{}, fmt.Errorf("unknown rule type %q (short|mid|sell)", rule)
	}
}

func init() {
	screenCmd.Flags().StringVar(&screenRule, "rule", "short", "rule bundle (short|mid|sell)")
	screenCmd.Flags().BoolVar(&screenLegacy, "legacy", false, "use the first-generation short bundle")
	screenCmd.Flags().BoolVar(&screenSave, "save", false, "persist the result set")
	rootCmd.AddCommand(screenCmd)
}
