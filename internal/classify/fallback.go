package classify

import (
	"context"
	"log/slog"
	"time"

	"budgetin/internal/core"
)

// fallbackClassifier tries the primary tier under a bounded wait and
// degrades to the fallback on any failure. The fallback is expected to be
// total (Rules is), which makes the composition total as well.
type fallbackClassifier struct {
	primary  Classifier
	fallback Classifier
	timeout  time.Duration
}

// WithFallback composes two classifiers. Every primary failure — error,
// timeout, context cancellation — silently resolves through the fallback;
// callers never see a classification error. A nil primary yields the
// fallback alone.
func WithFallback(primary, fallback Classifier, timeout time.Duration) Classifier {
	if primary == nil {
		return fallback
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &fallbackClassifier{primary: primary, fallback: fallback, timeout: timeout}
}

func (f *fallbackClassifier) Classify(ctx context.Context, description string) (core.Category, error) {
	primaryCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cat, err := f.primary.Classify(primaryCtx, description)
	if err == nil {
		if canonical, ok := core.ValidCategory(string(cat)); ok {
			return canonical, nil
		}
		err = core.ErrUnknownCategory
	}

	slog.WarnContext(ctx, "Primary classifier degraded, using fallback",
		"error", err)
	return f.fallback.Classify(ctx, description)
}
