// Package pipeline orchestrates a reconciliation run: extract both documents,
// merge the raw field sets into a unified record, and persist the outcome.
package pipeline

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/payverify-cli/internal/extract"
	"github.com/sells-group/payverify-cli/internal/merge"
	"github.com/sells-group/payverify-cli/internal/model"
	"github.com/sells-group/payverify-cli/internal/store"
)

// Pipeline runs the extract-and-merge flow for document pairs.
type Pipeline struct {
	store   store.Store
	paystub extract.Extractor
	ev      extract.Extractor
}

// New creates a Pipeline with all dependencies.
func New(st store.Store, paystub, ev extract.Extractor) *Pipeline {
	return &Pipeline{
		store:   st,
		paystub: paystub,
		ev:      ev,
	}
}

// Run executes a full reconciliation for one document pair. Extraction
// failures degrade to an empty field set for that source; only context
// cancellation or storage failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, docs model.DocumentPair) (*model.RunResult, error) {
	log := zap.L().With(
		zap.String("paystub", docs.PaystubPath),
		zap.String("ev", docs.EVPath),
	)
	log.Info("pipeline: starting reconciliation")

	run, err := p.store.CreateRun(ctx, docs)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	result := &model.RunResult{}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	var phasesMu sync.Mutex
	trackPhase := func(name string, fn func() (*model.PhaseResult, error)) {
		phase, phaseErr := p.store.CreatePhase(ctx, run.ID, name)
		if phaseErr != nil {
			log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
		}

		start := time.Now()
		phaseResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if phaseResult == nil {
			phaseResult = &model.PhaseResult{}
		}
		phaseResult.Name = name
		phaseResult.Duration = duration

		if fnErr != nil {
			phaseResult.Status = model.PhaseStatusFailed
			phaseResult.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else if phaseResult.Status == "" {
			phaseResult.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
			)
		}

		if phase != nil {
			_ = p.store.CompletePhase(ctx, phase.ID, phaseResult)
		}
		phasesMu.Lock()
		result.Phases = append(result.Phases, *phaseResult)
		phasesMu.Unlock()
	}

	// Extract both documents in parallel. Each source is independent; a
	// failed or missing document contributes an empty set.
	setStatus(model.RunStatusExtracting)

	var paystubRaw, evRaw model.RawFieldSet

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		trackPhase("extract_paystub", func() (*model.PhaseResult, error) {
			raw, meta, exErr := p.extractDocument(gCtx, p.paystub, docs.PaystubPath)
			paystubRaw = raw
			return meta, exErr
		})
		return gCtx.Err()
	})

	g.Go(func() error {
		trackPhase("extract_ev", func() (*model.PhaseResult, error) {
			raw, meta, exErr := p.extractDocument(gCtx, p.ev, docs.EVPath)
			evRaw = raw
			return meta, exErr
		})
		return gCtx.Err()
	})

	if waitErr := g.Wait(); waitErr != nil {
		result.Error = waitErr.Error()
		if saveErr := p.store.UpdateRunResult(ctx, run.ID, result); saveErr != nil {
			log.Warn("pipeline: failed to save run result", zap.Error(saveErr))
		}
		return result, eris.Wrap(waitErr, "pipeline: extraction cancelled")
	}

	// Merge the two sets into the unified record.
	setStatus(model.RunStatusMerging)

	trackPhase("merge", func() (*model.PhaseResult, error) {
		result.Unified = merge.BuildUnified(paystubRaw, evRaw)
		return &model.PhaseResult{
			Metadata: map[string]any{
				"paystub_raw_fields": len(paystubRaw),
				"ev_raw_fields":      len(evRaw),
			},
		}, nil
	})

	result.FieldsFound = countFound(result.Unified.ExtractedFields)
	result.FieldsTotal = len(model.CanonicalFields)

	if saveErr := p.store.UpdateRunResult(ctx, run.ID, result); saveErr != nil {
		log.Warn("pipeline: failed to save run result", zap.Error(saveErr))
	}

	log.Info("pipeline: reconciliation complete",
		zap.String("run_id", run.ID),
		zap.Int("fields_found", result.FieldsFound),
		zap.Int("fields_total", result.FieldsTotal),
	)

	return result, nil
}

// extractDocument reads one document and runs its extractor. A blank path
// means the source was not provided and yields an empty set with a skipped
// phase.
func (p *Pipeline) extractDocument(ctx context.Context, ex extract.Extractor, path string) (model.RawFieldSet, *model.PhaseResult, error) {
	if path == "" {
		return model.RawFieldSet{}, &model.PhaseResult{
			Status:   model.PhaseStatusSkipped,
			Metadata: map[string]any{"reason": "document not provided"},
		}, nil
	}

	document, err := os.ReadFile(path)
	if err != nil {
		return model.RawFieldSet{}, nil, eris.Wrapf(err, "pipeline: read document %s", path)
	}

	raw, err := ex.Extract(ctx, document)
	if err != nil {
		return model.RawFieldSet{}, nil, eris.Wrapf(err, "pipeline: extract %s", path)
	}

	return raw, &model.PhaseResult{
		Metadata: map[string]any{"raw_fields": len(raw)},
	}, nil
}

// countFound reports how many canonical fields carry a present value.
func countFound(rec model.UnifiedRecord) int {
	found := 0
	for _, field := range model.CanonicalFields {
		if fv, ok := rec[field]; ok && !fv.Empty() {
			found++
		}
	}
	return found
}
