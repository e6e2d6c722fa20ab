package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/payverify-cli/internal/config"
	"github.com/sells-group/payverify-cli/internal/model"
	"github.com/sells-group/payverify-cli/pkg/anthropic"
	"github.com/sells-group/payverify-cli/pkg/docintel"
)

// llmSupplementKeys are the raw paystub fields the LLM pass may fill when the
// structured model left them empty.
var llmSupplementKeys = []string{"TotalHoursWorked", "AveragePayRate", "JobTitle"}

// llmDefaultConfidence applies when the model omits a per-field score.
const llmDefaultConfidence = 80.0

// PaystubExtractor runs the prebuilt paystub model, an OCR read pass, and an
// LLM supplement for fields the structured model misses.
type PaystubExtractor struct {
	di        docintel.Client
	llm       anthropic.Client
	model     string
	readModel string
	llmModel  string
	maxTokens int64
}

// NewPaystub creates a paystub extractor. llm may be nil to disable the
// supplement pass.
func NewPaystub(di docintel.Client, llm anthropic.Client, cfg config.DocIntelConfig, llmCfg config.AnthropicConfig) *PaystubExtractor {
	return &PaystubExtractor{
		di:        di,
		llm:       llm,
		model:     cfg.PaystubModel,
		readModel: cfg.ReadModel,
		llmModel:  llmCfg.Model,
		maxTokens: llmCfg.MaxTokens,
	}
}

// Extract produces the raw paystub field set. Individual passes that fail are
// logged and skipped; the result degrades to whatever the remaining passes
// produced. Only context cancellation aborts.
func (e *PaystubExtractor) Extract(ctx context.Context, document []byte) (model.RawFieldSet, error) {
	log := zap.L().With(zap.String("extractor", "paystub"))
	out := model.RawFieldSet{}

	structured, err := e.di.Analyze(ctx, e.model, document, docintel.WithFeatures("queryFields"))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("structured extraction failed", zap.Error(err))
	} else {
		for name, f := range structured.Fields {
			out[name] = model.RawFieldValue{
				Value:      f.Content,
				Confidence: confPtr(scaleConfidence(f.Confidence)),
			}
		}
		log.Info("structured extraction complete", zap.Int("fields", len(out)))
	}

	text := e.readText(ctx, document, log)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if e.llm != nil && text != "" {
		e.supplement(ctx, out, text, log)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return out, nil
}

func (e *PaystubExtractor) readText(ctx context.Context, document []byte, log *zap.Logger) string {
	read, err := e.di.Analyze(ctx, e.readModel, document)
	if err != nil {
		log.Warn("ocr read failed", zap.Error(err))
		return ""
	}
	var lines []string
	for _, p := range read.Pages {
		lines = append(lines, p.Lines...)
	}
	text := strings.Join(lines, "\n")
	log.Info("ocr read complete", zap.Int("chars", len(text)))
	return text
}

// supplement fills gaps in the structured set from the LLM pass. A structured
// value always wins over the LLM's guess for the same key.
func (e *PaystubExtractor) supplement(ctx context.Context, out model.RawFieldSet, text string, log *zap.Logger) {
	fields, usage, err := e.extractLLMFields(ctx, text)
	if err != nil {
		log.Warn("llm supplement failed", zap.Error(err))
		return
	}
	usage.LogCost(e.llmModel, "paystub_supplement")

	filled := 0
	for _, key := range llmSupplementKeys {
		item, ok := fields[key]
		if !ok || item.Value == nil {
			continue
		}
		if existing, ok := out[key]; ok && !isEmptyRaw(existing) {
			continue
		}
		out[key] = item
		filled++
	}
	log.Info("llm supplement complete", zap.Int("fields_filled", filled))
}

func isEmptyRaw(v model.RawFieldValue) bool {
	if v.Value == nil {
		return true
	}
	s, ok := v.Value.(string)
	return ok && s == ""
}
