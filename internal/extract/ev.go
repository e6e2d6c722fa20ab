package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/payverify-cli/internal/config"
	"github.com/sells-group/payverify-cli/internal/model"
	"github.com/sells-group/payverify-cli/pkg/docintel"
)

// EVExtractor runs the custom employment-verification model.
type EVExtractor struct {
	di    docintel.Client
	model string
}

// NewEV creates an employment-verification extractor.
func NewEV(di docintel.Client, cfg config.DocIntelConfig) *EVExtractor {
	return &EVExtractor{di: di, model: cfg.EVModel}
}

// Extract produces the raw EV field set. A service failure degrades to an
// empty set; only context cancellation aborts.
func (e *EVExtractor) Extract(ctx context.Context, document []byte) (model.RawFieldSet, error) {
	log := zap.L().With(zap.String("extractor", "ev"))

	result, err := e.di.Analyze(ctx, e.model, document)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("ev extraction failed", zap.Error(err))
		return model.RawFieldSet{}, nil
	}

	out := make(model.RawFieldSet, len(result.Fields))
	for name, f := range result.Fields {
		item := model.RawFieldValue{Value: f.Content}
		// The custom model omits confidence for some fields; keep those nil
		// rather than reporting a confident zero.
		if f.Confidence > 0 {
			item.Confidence = confPtr(scaleConfidence(f.Confidence))
		}
		out[name] = item
	}
	log.Info("ev extraction complete", zap.Int("fields", len(out)))
	return out, nil
}
