package merge

import (
	"go.uber.org/zap"

	"github.com/sells-group/payverify-cli/internal/model"
	"github.com/sells-group/payverify-cli/internal/normalize"
)

// StatusSuccess marks a completed reconciliation. The engine has no fatal
// error path: fields are either present and valid or absent.
const StatusSuccess = "success"

// ByPriority applies hard source priority for each canonical field and
// returns a record containing every canonical field exactly once.
func ByPriority(ps, ev model.FieldSet) model.UnifiedRecord {
	final := make(model.UnifiedRecord, len(model.CanonicalFields))

	for _, field := range model.CanonicalFields {
		final[field] = resolve(field, ps, ev)
	}

	// Derived fields fill after the priority walk. A successful derivation
	// always supersedes whatever the walk resolved, including a raw-source
	// value should a future field ever mix raw and derived priorities.
	for _, field := range model.CanonicalFields {
		if !listsDerived(field) {
			continue
		}
		if v, ok := derivations[field](ps); ok {
			final[field] = v
		}
	}

	return final
}

func resolve(field model.CanonicalField, ps, ev model.FieldSet) model.FieldValue {
	for _, src := range priority[field] {
		var item model.FieldValue
		var ok bool
		switch src {
		case model.SourcePaystub:
			item, ok = ps[field]
		case model.SourceEV:
			item, ok = ev[field]
		case model.SourceDerived:
			// Resolved after the priority walk.
			continue
		}
		if ok && !item.Empty() {
			return item
		}
	}
	return model.FieldValue{}
}

func listsDerived(field model.CanonicalField) bool {
	for _, src := range priority[field] {
		if src == model.SourceDerived {
			return true
		}
	}
	return false
}

// BuildUnified is the single entry point: normalize both sources, merge by
// priority, wrap with a status marker. Either raw set may be nil, meaning that
// source produced nothing or was not run; the call never fails for any
// combination of well-formed inputs.
func BuildUnified(paystubRaw, evRaw model.RawFieldSet) model.UnifiedResult {
	psNorm, psUnmapped := normalize.Paystub(paystubRaw)
	evNorm, evUnmapped := normalize.EV(evRaw)

	if len(psUnmapped) > 0 {
		zap.L().Debug("merge: paystub keys not in canonical mapping",
			zap.Strings("keys", psUnmapped))
	}
	if len(evUnmapped) > 0 {
		zap.L().Debug("merge: ev keys not in canonical mapping",
			zap.Strings("keys", evUnmapped))
	}

	return model.UnifiedResult{
		Status:          StatusSuccess,
		ExtractedFields: ByPriority(psNorm, evNorm),
	}
}
