package translate

import (
	"github.com/ALLiDoizCode/adp-relay/core"
)

// ExtractFunc runs one extraction strategy against a request.
type ExtractFunc func(request string, handler *core.HandlerDescriptor) *core.ExtractionAttempt

// Strategy is one tagged extraction variant. The engine iterates the
// Strategies list in its fixed order rather than switching on names.
type Strategy struct {
	Name    string
	Extract ExtractFunc
}

// Strategies returns the extraction rotation in attempt order: primary,
// aggressive fallback, coercion, fuzzy.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "primary", Extract: extractPrimary},
		{Name: "aggressive", Extract: extractAggressive},
		{Name: "coercion", Extract: extractCoercion},
		{Name: "fuzzy", Extract: extractFuzzy},
	}
}

// ByName returns the named strategy, or nil. Used by introspection entry
// points that replay a single strategy.
func ByName(name string) *Strategy {
	for _, s := range Strategies() {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
