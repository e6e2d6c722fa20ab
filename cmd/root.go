package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/payverify-cli/internal/config"
	"github.com/sells-group/payverify-cli/internal/merge"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "payverify-cli",
	Short: "Payroll document reconciliation pipeline",
	Long:  "Extracts fields from paystub and employment-verification documents, normalizes them into a canonical schema, and merges them into one unified record.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		// Bad merge rules mean every run would produce wrong records.
		if err := merge.ValidateRules(); err != nil {
			return fmt.Errorf("merge rules: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
