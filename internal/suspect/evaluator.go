package suspect

import (
	"context"
	"log/slog"

	"blackspot/internal/logging"
)

// CatalogItem is one media entry under evaluation. Timestamps are the raw
// attribute strings from the item source; the evaluator owns their parsing.
type CatalogItem struct {
	Key       string
	Title     string
	AddedAt   string
	UpdatedAt string
	Thumb     string
}

// Outcome captures everything one evaluation determined, for dispatch and
// reporting.
type Outcome struct {
	Action     Action
	Suspicious bool
	// Checked reports whether the blackness classifier ran at all.
	Checked bool
	Black   bool
	Verdict Verdict
}

// Evaluator runs the per-item pipeline: temporal check, gated blackness
// check, decision. It holds no per-item state and is safe for concurrent use
// when the fetch collaborator is.
type Evaluator struct {
	thresholds Thresholds
	force      bool
	fetch      FetchFunc
	logger     *slog.Logger
}

// NewEvaluator wires an evaluator. A nil logger disables debug output.
func NewEvaluator(thresholds Thresholds, force bool, fetch FetchFunc, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Evaluator{
		thresholds: thresholds,
		force:      force,
		fetch:      fetch,
		logger:     logger,
	}
}

// Evaluate classifies one item and returns the action to take. It never
// fails; collaborator errors degrade according to the package policy.
func (e *Evaluator) Evaluate(ctx context.Context, item CatalogItem) Outcome {
	suspicious := Suspicious(item.AddedAt, item.UpdatedAt, e.thresholds.TimeDiff)

	outcome := Outcome{Suspicious: suspicious}
	if ShouldCheckBlackness(suspicious, e.force) {
		outcome.Checked = true
		outcome.Verdict = Classify(ctx, item.Thumb, e.fetch, e.thresholds.Blackness)
		outcome.Black = outcome.Verdict.Black
	}

	outcome.Action = Decide(suspicious, outcome.Black, e.force)

	attrs := []logging.Attr{
		logging.String(logging.FieldItemKey, item.Key),
		logging.String("title", item.Title),
		logging.Bool("suspicious", suspicious),
		logging.Bool("black", outcome.Black),
		logging.String(logging.FieldAction, outcome.Action.String()),
	}
	if outcome.Checked {
		attrs = append(attrs, logging.String("black_reason", outcome.Verdict.Reason.String()))
		if outcome.Verdict.Reason == ReasonRatio {
			attrs = append(attrs, logging.Float64("black_ratio", outcome.Verdict.Ratio))
		}
	}
	e.logger.Debug("item evaluated", logging.Args(attrs...)...)

	return outcome
}
