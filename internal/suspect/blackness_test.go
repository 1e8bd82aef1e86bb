package suspect_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"blackspot/internal/suspect"
)

func encodeUniformPNG(t *testing.T, level uint8, width, height int) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: level})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func staticFetch(data []byte, err error) suspect.FetchFunc {
	return func(context.Context, string) ([]byte, error) {
		return data, err
	}
}

func panickingFetch(t *testing.T) suspect.FetchFunc {
	return func(context.Context, string) ([]byte, error) {
		t.Fatal("fetcher invoked for a reference with no thumbnail")
		return nil, nil
	}
}

func TestClassifySkipsFetchWithoutThumbnail(t *testing.T) {
	t.Parallel()

	refs := []string{"", "   ", "none", "NONE", "/library/None/thumb", "poster-none.jpg"}
	for _, ref := range refs {
		verdict := suspect.Classify(context.Background(), ref, panickingFetch(t), 0.5)
		if verdict.Black {
			t.Fatalf("ref %q: expected not black", ref)
		}
		if verdict.Reason != suspect.ReasonNoThumbnail {
			t.Fatalf("ref %q: unexpected reason %v", ref, verdict.Reason)
		}
	}
}

func TestClassifyTreatsFetchFailureAsBlack(t *testing.T) {
	t.Parallel()

	for _, threshold := range []float64{0, 0.5, 1} {
		verdict := suspect.Classify(context.Background(), "/thumb/1", staticFetch(nil, errors.New("unreachable")), threshold)
		if !verdict.Black {
			t.Fatalf("threshold %v: fetch failure should classify as black", threshold)
		}
		if verdict.Reason != suspect.ReasonFetchFailed {
			t.Fatalf("threshold %v: unexpected reason %v", threshold, verdict.Reason)
		}
	}
}

func TestClassifyTreatsDecodeFailureAsNotBlack(t *testing.T) {
	t.Parallel()

	for _, threshold := range []float64{0, 0.5, 1} {
		verdict := suspect.Classify(context.Background(), "/thumb/1", staticFetch([]byte("not an image"), nil), threshold)
		if verdict.Black {
			t.Fatalf("threshold %v: decode failure should not classify as black", threshold)
		}
		if verdict.Reason != suspect.ReasonDecodeFailed {
			t.Fatalf("threshold %v: unexpected reason %v", threshold, verdict.Reason)
		}
	}
}

func TestClassifyAllBlackImage(t *testing.T) {
	t.Parallel()

	data := encodeUniformPNG(t, 0, 8, 8)
	for _, threshold := range []float64{0, 0.5, 0.95, 1.0} {
		verdict := suspect.Classify(context.Background(), "/thumb/1", staticFetch(data, nil), threshold)
		if !verdict.Black {
			t.Fatalf("threshold %v: all-black image should classify as black", threshold)
		}
		if verdict.Reason != suspect.ReasonRatio || verdict.Ratio != 1.0 {
			t.Fatalf("threshold %v: unexpected verdict %+v", threshold, verdict)
		}
	}
}

func TestClassifyAllWhiteImage(t *testing.T) {
	t.Parallel()

	data := encodeUniformPNG(t, 255, 8, 8)
	for _, threshold := range []float64{0.01, 0.5, 1.0} {
		verdict := suspect.Classify(context.Background(), "/thumb/1", staticFetch(data, nil), threshold)
		if verdict.Black {
			t.Fatalf("threshold %v: all-white image should not classify as black", threshold)
		}
		if verdict.Reason != suspect.ReasonRatio || verdict.Ratio != 0 {
			t.Fatalf("threshold %v: unexpected verdict %+v", threshold, verdict)
		}
	}
}

func TestClassifyNearBlackDoesNotCount(t *testing.T) {
	t.Parallel()

	// Level 1 is visually black but deliberately excluded from bucket 0.
	data := encodeUniformPNG(t, 1, 8, 8)
	verdict := suspect.Classify(context.Background(), "/thumb/1", staticFetch(data, nil), 0.5)
	if verdict.Black {
		t.Fatal("near-black image should not classify as black")
	}
	if verdict.Ratio != 0 {
		t.Fatalf("expected ratio 0 for level-1 image, got %v", verdict.Ratio)
	}
}

func TestClassifyMixedImageRespectsThreshold(t *testing.T) {
	t.Parallel()

	// 3 of 4 pixels black: ratio 0.75.
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 0})
	img.SetGray(0, 1, color.Gray{Y: 0})
	img.SetGray(1, 1, color.Gray{Y: 200})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()

	if v := suspect.Classify(context.Background(), "/t", staticFetch(data, nil), 0.75); !v.Black {
		t.Fatalf("ratio %v should meet threshold 0.75", v.Ratio)
	}
	if v := suspect.Classify(context.Background(), "/t", staticFetch(data, nil), 0.76); v.Black {
		t.Fatalf("ratio %v should miss threshold 0.76", v.Ratio)
	}
}

func TestHistogramAndBlackRatio(t *testing.T) {
	t.Parallel()

	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 0})
	img.SetGray(2, 0, color.Gray{Y: 128})
	img.SetGray(3, 0, color.Gray{Y: 255})

	hist := suspect.Histogram(img)
	if hist[0] != 2 || hist[128] != 1 || hist[255] != 1 {
		t.Fatalf("unexpected histogram buckets: 0=%d 128=%d 255=%d", hist[0], hist[128], hist[255])
	}
	if got := suspect.BlackRatio(hist); got != 0.5 {
		t.Fatalf("BlackRatio = %v, want 0.5", got)
	}

	var empty [256]int
	if got := suspect.BlackRatio(empty); got != 0 {
		t.Fatalf("BlackRatio of empty histogram = %v, want 0", got)
	}
}
