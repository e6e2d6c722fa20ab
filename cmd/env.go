package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/payverify-cli/internal/extract"
	"github.com/sells-group/payverify-cli/internal/pipeline"
	"github.com/sells-group/payverify-cli/internal/store"
	anthropicpkg "github.com/sells-group/payverify-cli/pkg/anthropic"
	"github.com/sells-group/payverify-cli/pkg/docintel"
)

// pipelineEnv holds the initialized store, extractors, and pipeline needed by
// the reconcile/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "payverify.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store and document extractors and builds the
// Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if cfg.DocIntel.Endpoint == "" || cfg.DocIntel.Key == "" {
		return nil, eris.New("document intelligence endpoint and key are required (PAYVERIFY_DOCINTEL_ENDPOINT, PAYVERIFY_DOCINTEL_KEY)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	diClient := docintel.NewClient(cfg.DocIntel.Endpoint, cfg.DocIntel.Key,
		docintel.WithPollInterval(time.Duration(cfg.DocIntel.PollIntervalSecs)*time.Second),
		docintel.WithRateLimit(cfg.DocIntel.RequestsPerSec),
	)

	var llmClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		llmClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	}

	paystubEx := extract.NewPaystub(diClient, llmClient, cfg.DocIntel, cfg.Anthropic)
	evEx := extract.NewEV(diClient, cfg.DocIntel)

	return &pipelineEnv{
		Store:    st,
		Pipeline: pipeline.New(st, paystubEx, evEx),
	}, nil
}
