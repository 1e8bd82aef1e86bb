package scan

import "blackspot/internal/suspect"

// ItemResult records the evaluation and dispatch outcome for one item.
type ItemResult struct {
	Item    suspect.CatalogItem
	Outcome suspect.Outcome
	// Dispatched reports whether the remediation call was actually issued
	// (false for NoAction and dry runs).
	Dispatched bool
	// ActionErr holds the remediation failure, if any. Failed actions never
	// abort the run.
	ActionErr error
}

// Report aggregates one run.
type Report struct {
	RunID     string
	LibraryID string
	DryRun    bool
	// SourceUnavailable is set when the library listing failed; the run then
	// completes cleanly with zero results.
	SourceUnavailable bool
	Results           []ItemResult
}

// Evaluated returns the number of items that went through the pipeline.
func (r *Report) Evaluated() int {
	return len(r.Results)
}

// Suspicious counts items flagged by the temporal heuristic.
func (r *Report) Suspicious() int {
	count := 0
	for _, res := range r.Results {
		if res.Outcome.Suspicious {
			count++
		}
	}
	return count
}

// Black counts items whose thumbnail classified as black.
func (r *Report) Black() int {
	count := 0
	for _, res := range r.Results {
		if res.Outcome.Black {
			count++
		}
	}
	return count
}

// ActionCount counts items that decided on the given action.
func (r *Report) ActionCount(action suspect.Action) int {
	count := 0
	for _, res := range r.Results {
		if res.Outcome.Action == action {
			count++
		}
	}
	return count
}

// ActionFailures counts dispatches the server rejected.
func (r *Report) ActionFailures() int {
	count := 0
	for _, res := range r.Results {
		if res.ActionErr != nil {
			count++
		}
	}
	return count
}
