package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"blackspot/internal/logging"
	"blackspot/internal/services"
	"blackspot/internal/suspect"
)

// ItemSource lists the catalog entries of one library section.
type ItemSource interface {
	LibraryItems(ctx context.Context, libraryID string) ([]suspect.CatalogItem, error)
}

// ActionExecutor performs remediation against the server.
type ActionExecutor interface {
	Analyze(ctx context.Context, ratingKey string) error
	Refresh(ctx context.Context, ratingKey string) error
}

// Options describes runner construction parameters.
type Options struct {
	Source    ItemSource
	Evaluator *suspect.Evaluator
	Executor  ActionExecutor
	Logger    *slog.Logger

	LibraryID string
	// Workers bounds evaluation concurrency; 1 keeps the run sequential.
	Workers int
	// DryRun evaluates and reports without issuing remediation calls.
	DryRun bool
	// LockPath, when set, enforces a single concurrent run via a file lock.
	LockPath string
}

// Runner executes one scan over a library section.
type Runner struct {
	source    ItemSource
	evaluator *suspect.Evaluator
	executor  ActionExecutor
	logger    *slog.Logger
	libraryID string
	workers   int
	dryRun    bool
	lockPath  string
}

// New constructs a runner from options.
func New(opts Options) (*Runner, error) {
	if opts.Source == nil || opts.Evaluator == nil || opts.Executor == nil {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "new", "source, evaluator, and executor are required", nil)
	}
	if opts.LibraryID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "new", "library ID is required", nil)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		source:    opts.Source,
		evaluator: opts.Evaluator,
		executor:  opts.Executor,
		logger:    logger.With(logging.String(logging.FieldComponent, "scan")),
		libraryID: opts.LibraryID,
		workers:   workers,
		dryRun:    opts.DryRun,
		lockPath:  opts.LockPath,
	}, nil
}

// Run lists the library and evaluates every item. Listing failure yields an
// empty report, not an error; only lock contention aborts.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.lockPath != "" {
		lock := flock.New(r.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire scan lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("another blackspot scan is already running (lock %s)", r.lockPath)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				r.logger.Warn("failed to release scan lock", logging.Error(err))
			}
		}()
	}

	report := &Report{
		RunID:     uuid.NewString(),
		LibraryID: r.libraryID,
		DryRun:    r.dryRun,
	}
	logger := r.logger.With(logging.String(logging.FieldRunID, report.RunID))
	logger.Info("scan started",
		logging.String("library_id", r.libraryID),
		logging.Int("workers", r.workers),
		logging.Bool("dry_run", r.dryRun),
	)

	items, err := r.source.LibraryItems(ctx, r.libraryID)
	if err != nil {
		logger.Error("library listing failed; nothing to evaluate", logging.Error(err))
		report.SourceUnavailable = true
		return report, nil
	}
	logger.Info("library listed", logging.Int("items", len(items)))

	results := make([]ItemResult, len(items))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)

	for i, item := range items {
		// Stop issuing new work once the run is aborted; in-flight items
		// finish under their own request timeouts.
		if groupCtx.Err() != nil {
			results = results[:i]
			break
		}
		i, item := i, item
		group.Go(func() error {
			results[i] = r.processItem(groupCtx, logger, item)
			return nil
		})
	}

	_ = group.Wait()
	report.Results = results

	logger.Info("scan finished",
		logging.Int("evaluated", report.Evaluated()),
		logging.Int("suspicious", report.Suspicious()),
		logging.Int("black", report.Black()),
		logging.Int("analyzed", report.ActionCount(suspect.ReAnalyze)),
		logging.Int("refreshed", report.ActionCount(suspect.Refresh)),
		logging.Int("action_failures", report.ActionFailures()),
	)
	return report, nil
}

func (r *Runner) processItem(ctx context.Context, logger *slog.Logger, item suspect.CatalogItem) ItemResult {
	itemLogger := logger.With(
		logging.String(logging.FieldRequestID, uuid.NewString()),
		logging.String(logging.FieldItemKey, item.Key),
	)

	result := ItemResult{Item: item}
	result.Outcome = r.evaluator.Evaluate(ctx, item)

	if result.Outcome.Action == suspect.NoAction {
		return result
	}
	if r.dryRun {
		itemLogger.Info("would dispatch action",
			logging.String(logging.FieldAction, result.Outcome.Action.String()),
			logging.String("title", item.Title),
		)
		return result
	}

	result.Dispatched = true
	var err error
	switch result.Outcome.Action {
	case suspect.ReAnalyze:
		err = r.executor.Analyze(ctx, item.Key)
	case suspect.Refresh:
		err = r.executor.Refresh(ctx, item.Key)
	}
	if err != nil {
		result.ActionErr = err
		itemLogger.Error("action failed",
			logging.String(logging.FieldAction, result.Outcome.Action.String()),
			logging.Error(err),
		)
		return result
	}

	itemLogger.Info("action dispatched",
		logging.String(logging.FieldAction, result.Outcome.Action.String()),
		logging.String("title", item.Title),
	)
	return result
}
