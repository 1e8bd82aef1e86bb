package suspect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"blackspot/internal/suspect"
)

type countingFetch struct {
	calls int
	data  []byte
	err   error
}

func (f *countingFetch) fetch(context.Context, string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func newEvaluator(t *testing.T, force bool, fetch suspect.FetchFunc) *suspect.Evaluator {
	t.Helper()
	thresholds := suspect.Thresholds{TimeDiff: 180 * time.Second, Blackness: 0.95}
	if err := thresholds.Validate(); err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	return suspect.NewEvaluator(thresholds, force, fetch, nil)
}

func TestEvaluateSuspiciousWithEmptyThumbRefreshes(t *testing.T) {
	t.Parallel()

	fetcher := &countingFetch{}
	eval := newEvaluator(t, false, fetcher.fetch)

	outcome := eval.Evaluate(context.Background(), suspect.CatalogItem{
		Key: "101", AddedAt: "1000", UpdatedAt: "1010", Thumb: "",
	})

	if !outcome.Suspicious {
		t.Fatal("expected suspicious")
	}
	if outcome.Black {
		t.Fatal("empty thumb must short-circuit to not black")
	}
	if outcome.Action != suspect.Refresh {
		t.Fatalf("action = %v, want Refresh", outcome.Action)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher called %d times for empty thumb", fetcher.calls)
	}
}

func TestEvaluateSuspiciousWithFetchFailureReAnalyzes(t *testing.T) {
	t.Parallel()

	fetcher := &countingFetch{err: errors.New("502 bad gateway")}
	eval := newEvaluator(t, false, fetcher.fetch)

	outcome := eval.Evaluate(context.Background(), suspect.CatalogItem{
		Key: "102", AddedAt: "1000", UpdatedAt: "1005", Thumb: "/library/metadata/102/thumb/1005",
	})

	if !outcome.Suspicious || !outcome.Black {
		t.Fatalf("expected suspicious black outcome, got %+v", outcome)
	}
	if outcome.Action != suspect.ReAnalyze {
		t.Fatalf("action = %v, want ReAnalyze", outcome.Action)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher calls = %d, want 1", fetcher.calls)
	}
}

func TestEvaluateClearItemSkipsBlacknessEntirely(t *testing.T) {
	t.Parallel()

	fetcher := &countingFetch{}
	eval := newEvaluator(t, false, fetcher.fetch)

	outcome := eval.Evaluate(context.Background(), suspect.CatalogItem{
		Key: "103", AddedAt: "1000", UpdatedAt: "5000", Thumb: "/library/metadata/103/thumb/5000",
	})

	if outcome.Suspicious || outcome.Checked || outcome.Black {
		t.Fatalf("expected clean skip, got %+v", outcome)
	}
	if outcome.Action != suspect.NoAction {
		t.Fatalf("action = %v, want NoAction", outcome.Action)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher must not run for clear unforced items, got %d calls", fetcher.calls)
	}
}

func TestEvaluateForcedCheckCatchesBlackThumb(t *testing.T) {
	t.Parallel()

	fetcher := &countingFetch{data: encodeUniformPNG(t, 0, 8, 8)}
	eval := newEvaluator(t, true, fetcher.fetch)

	outcome := eval.Evaluate(context.Background(), suspect.CatalogItem{
		Key: "104", AddedAt: "1000", UpdatedAt: "5000", Thumb: "/library/metadata/104/thumb/5000",
	})

	if outcome.Suspicious {
		t.Fatal("item should not be temporally suspicious")
	}
	if !outcome.Checked || !outcome.Black {
		t.Fatalf("forced check should have run and found black, got %+v", outcome)
	}
	if outcome.Action != suspect.ReAnalyze {
		t.Fatalf("action = %v, want ReAnalyze", outcome.Action)
	}
}

func TestEvaluateForcedCheckWithCleanThumbDoesNothing(t *testing.T) {
	t.Parallel()

	fetcher := &countingFetch{data: encodeUniformPNG(t, 255, 8, 8)}
	eval := newEvaluator(t, true, fetcher.fetch)

	outcome := eval.Evaluate(context.Background(), suspect.CatalogItem{
		Key: "105", AddedAt: "1000", UpdatedAt: "5000", Thumb: "/library/metadata/105/thumb/5000",
	})

	if outcome.Action != suspect.NoAction {
		t.Fatalf("action = %v, want NoAction", outcome.Action)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher calls = %d, want 1", fetcher.calls)
	}
}

func TestEvaluateMalformedTimestampsNeverSuspicious(t *testing.T) {
	t.Parallel()

	fetcher := &countingFetch{}
	eval := newEvaluator(t, false, fetcher.fetch)

	outcome := eval.Evaluate(context.Background(), suspect.CatalogItem{
		Key: "106", AddedAt: "", UpdatedAt: "oops", Thumb: "/thumb",
	})

	if outcome.Suspicious || outcome.Action != suspect.NoAction {
		t.Fatalf("malformed timestamps must fail closed, got %+v", outcome)
	}
}
