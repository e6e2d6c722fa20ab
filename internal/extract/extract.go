// Package extract adapts external document-extraction services into raw field
// sets. Adapters degrade to partial or empty sets on collaborator failure; the
// merge core treats missing sources as ordinary input.
package extract

import (
	"context"
	"math"

	"github.com/sells-group/payverify-cli/internal/model"
)

// Extractor produces a raw field set from document bytes.
type Extractor interface {
	Extract(ctx context.Context, document []byte) (model.RawFieldSet, error)
}

// scaleConfidence converts the service's 0-1 confidence to the 0-100 scale
// used everywhere downstream, rounded to two decimals.
func scaleConfidence(c float64) float64 {
	return math.Round(c*100*100) / 100
}

func confPtr(c float64) *float64 {
	return &c
}
