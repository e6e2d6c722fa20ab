package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/payverify-cli/internal/model"
	"github.com/sells-group/payverify-cli/pkg/anthropic"
)

// maxPromptChars caps how much OCR text goes into the prompt.
const maxPromptChars = 2000

const supplementSystemPrompt = "You are a payroll document expert. Extract fields and respond with JSON only."

const supplementPromptTemplate = `From the following pay stub text, extract these fields:

1. TotalHoursWorked — the total of all hours worked across categories like Regular, Overtime, Holiday, Sick. Float value only. If not listed, return null.
2. AveragePayRate — the weighted average hourly rate, (rate x hours) summed and divided by total hours, rounded to 2 decimal places. Only hourly rates; ignore monthly or daily rates. Float value only. If not listed, return null.
3. JobTitle — the job title of the employee (like "Maintenance", "Driver"). If not listed, return null.

For each field also return a confidence score (0-100): 100 = absolutely certain, 80+ = strong match, 50-79 = moderate guess, below 50 = very uncertain.

Respond with one JSON object ONLY, no markdown, no code fences, no extra text, in this exact shape:
{"TotalHoursWorked": {"value": float|null, "confidence": int}, "AveragePayRate": {"value": float|null, "confidence": int}, "JobTitle": {"value": string|null, "confidence": int}}

Here is the pay stub text:
"""%s"""

JSON:`

// llmField mirrors the JSON shape the prompt demands.
type llmField struct {
	Value      any      `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// extractLLMFields asks the model for the supplement fields and parses its
// JSON-only reply into raw field values.
func (e *PaystubExtractor) extractLLMFields(ctx context.Context, text string) (model.RawFieldSet, anthropic.TokenUsage, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	temp := 0.0
	resp, err := e.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.llmModel,
		MaxTokens:   e.maxTokens,
		System:      supplementSystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: fmt.Sprintf(supplementPromptTemplate, text)}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, anthropic.TokenUsage{}, eris.Wrap(err, "extract: llm supplement")
	}

	fields, err := parseLLMFields(resp.Text)
	if err != nil {
		return nil, resp.Usage, err
	}
	return fields, resp.Usage, nil
}

// parseLLMFields decodes the model's JSON reply, tolerating markdown code
// fences it was told not to emit.
func parseLLMFields(raw string) (model.RawFieldSet, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))

	var parsed map[string]llmField
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, eris.Wrap(err, "extract: parse llm json")
	}

	out := make(model.RawFieldSet, len(parsed))
	for key, f := range parsed {
		conf := f.Confidence
		if conf == nil {
			c := llmDefaultConfidence
			conf = &c
		}
		out[key] = model.RawFieldValue{Value: f.Value, Confidence: conf}
	}
	return out, nil
}

func stripCodeFence(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.Trim(raw, "`")
	if strings.HasPrefix(strings.ToLower(raw), "json") {
		raw = raw[4:]
	}
	return strings.TrimSpace(raw)
}
