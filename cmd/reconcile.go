package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/payverify-cli/internal/merge"
	"github.com/sells-group/payverify-cli/internal/model"
)

var (
	reconcilePaystub       string
	reconcileEV            string
	reconcilePaystubFields string
	reconcileEVFields      string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile one paystub and employment-verification pair",
	Long: `Extracts both documents, normalizes the raw fields, and prints the unified
record as JSON. With --paystub-fields/--ev-fields, pre-extracted field sets
(JSON or YAML) are merged directly without calling the extraction services.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Pre-extracted field sets skip the extraction services entirely.
		if reconcilePaystubFields != "" || reconcileEVFields != "" {
			paystubRaw, err := loadFieldSet(reconcilePaystubFields)
			if err != nil {
				return err
			}
			evRaw, err := loadFieldSet(reconcileEVFields)
			if err != nil {
				return err
			}

			unified := merge.BuildUnified(paystubRaw, evRaw)
			return printJSON(unified)
		}

		if reconcilePaystub == "" && reconcileEV == "" {
			return eris.New("at least one of --paystub or --ev is required")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, model.DocumentPair{
			PaystubPath: reconcilePaystub,
			EVPath:      reconcileEV,
		})
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}

		zap.L().Info("reconciliation complete",
			zap.Int("fields_found", result.FieldsFound),
			zap.Int("fields_total", result.FieldsTotal),
		)

		return printJSON(result)
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcilePaystub, "paystub", "", "path to the paystub document")
	reconcileCmd.Flags().StringVar(&reconcileEV, "ev", "", "path to the employment-verification document")
	reconcileCmd.Flags().StringVar(&reconcilePaystubFields, "paystub-fields", "", "path to a pre-extracted paystub field set (json or yaml)")
	reconcileCmd.Flags().StringVar(&reconcileEVFields, "ev-fields", "", "path to a pre-extracted employment-verification field set (json or yaml)")
	rootCmd.AddCommand(reconcileCmd)
}

// loadFieldSet reads a raw field set from a JSON or YAML file. A blank path
// yields an empty set.
func loadFieldSet(path string) (model.RawFieldSet, error) {
	if path == "" {
		return model.RawFieldSet{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read field set %s", path)
	}

	raw := model.RawFieldSet{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, eris.Wrapf(err, "parse yaml field set %s", path)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, eris.Wrapf(err, "parse json field set %s", path)
		}
	}
	return raw, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
