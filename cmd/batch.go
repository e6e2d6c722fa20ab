package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/payverify-cli/internal/manifest"
	"github.com/sells-group/payverify-cli/internal/model"
)

var (
	batchManifest string
	batchLimit    int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Reconcile document pairs from a manifest file",
	Long:  "Reads a CSV or XLSX manifest of document pairs and reconciles them concurrently.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pairs, err := manifest.Read(batchManifest)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		return processBatch(ctx, pairs, batchLimit, cfg.Batch.MaxConcurrentDocs, func(ctx context.Context, docs model.DocumentPair) (*model.RunResult, error) {
			return env.Pipeline.Run(ctx, docs)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchManifest, "manifest", "", "path to a CSV or XLSX manifest of document pairs (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of pairs to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(batchCmd)
}

// reconcileFunc is the callback signature for reconciling one document pair.
type reconcileFunc func(ctx context.Context, docs model.DocumentPair) (*model.RunResult, error)

// processBatch applies limit, then reconciles pairs concurrently. Individual
// failures are logged and counted but do not abort the batch.
func processBatch(ctx context.Context, pairs []model.DocumentPair, limit, concurrency int, reconcile reconcileFunc) error {
	if len(pairs) == 0 {
		zap.L().Info("no document pairs in manifest")
		return nil
	}

	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("pairs", len(pairs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, pair := range pairs {
		g.Go(func() error {
			log := zap.L().With(
				zap.String("paystub", pair.PaystubPath),
				zap.String("ev", pair.EVPath),
			)

			result, err := reconcile(gctx, pair)
			if err != nil {
				failed.Add(1)
				log.Error("reconciliation failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("reconciliation complete",
				zap.Int("fields_found", result.FieldsFound),
				zap.Int("fields_total", result.FieldsTotal),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
