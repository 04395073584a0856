// Package classify assigns expense categories to free-text descriptions.
//
// Two tiers exist: a rule tier that matches keywords and always answers,
// and an optional AI tier that asks Gemini. WithFallback composes them so
// the caller sees a single classifier that never fails.
package classify

import (
	"context"

	"budgetin/internal/core"
)

// Classifier maps a description to exactly one category. Implementations
// may fail; compose with WithFallback to obtain a total classifier.
type Classifier interface {
	Classify(ctx context.Context, description string) (core.Category, error)
}

// Func adapts a plain function to the Classifier interface.
type Func func(ctx context.Context, description string) (core.Category, error)

func (f Func) Classify(ctx context.Context, description string) (core.Category, error) {
	return f(ctx, description)
}
