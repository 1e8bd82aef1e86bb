package suspect

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// FetchFunc retrieves raw image bytes for a thumbnail reference. The plex
// client's FetchThumbnail satisfies it.
type FetchFunc func(ctx context.Context, ref string) ([]byte, error)

// Reason records why the blackness classifier reached its verdict.
type Reason int

const (
	// ReasonNoThumbnail means the reference was empty or a "none" sentinel;
	// nothing was fetched.
	ReasonNoThumbnail Reason = iota
	// ReasonFetchFailed means the thumbnail could not be retrieved. A missing
	// thumbnail warrants the same remediation as a black one.
	ReasonFetchFailed
	// ReasonDecodeFailed means the bytes were not a decodable image. Corrupt
	// data is not trusted as evidence either way.
	ReasonDecodeFailed
	// ReasonEmptyImage means the decoded image held zero pixels.
	ReasonEmptyImage
	// ReasonRatio means the histogram ratio decided the verdict.
	ReasonRatio
)

func (r Reason) String() string {
	switch r {
	case ReasonNoThumbnail:
		return "no-thumbnail"
	case ReasonFetchFailed:
		return "fetch-failed"
	case ReasonDecodeFailed:
		return "decode-failed"
	case ReasonEmptyImage:
		return "empty-image"
	case ReasonRatio:
		return "ratio"
	default:
		return "unknown"
	}
}

// Verdict is the blackness classifier's outcome for one thumbnail.
type Verdict struct {
	Black  bool
	Reason Reason
	// Ratio is the black-pixel fraction; meaningful only when Reason is
	// ReasonRatio.
	Ratio float64
}

// HasThumbnail reports whether a reference points at a judgeable thumbnail.
// Empty references and anything containing "none" (case-insensitive, substring
// match as the server emits it) do not.
func HasThumbnail(ref string) bool {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(trimmed), "none")
}

// Classify judges one thumbnail reference. It fetches at most once and never
// returns an error: every failure mode degrades to a verdict per the package
// policy.
func Classify(ctx context.Context, ref string, fetch FetchFunc, threshold float64) Verdict {
	if !HasThumbnail(ref) {
		return Verdict{Black: false, Reason: ReasonNoThumbnail}
	}

	data, err := fetch(ctx, ref)
	if err != nil {
		return Verdict{Black: true, Reason: ReasonFetchFailed}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Verdict{Black: false, Reason: ReasonDecodeFailed}
	}

	hist := Histogram(img)
	total := 0
	for _, count := range hist {
		total += count
	}
	if total == 0 {
		return Verdict{Black: false, Reason: ReasonEmptyImage}
	}

	ratio := float64(hist[0]) / float64(total)
	return Verdict{Black: ratio >= threshold, Reason: ReasonRatio, Ratio: ratio}
}

// IsBlack is the boolean form of Classify.
func IsBlack(ctx context.Context, ref string, fetch FetchFunc, threshold float64) bool {
	return Classify(ctx, ref, fetch, threshold).Black
}

// Histogram buckets an image's pixels by 8-bit grayscale level. Only bucket 0
// counts as black downstream; near-black levels are deliberately excluded.
func Histogram(img image.Image) [256]int {
	var hist [256]int
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			hist[gray.Y]++
		}
	}
	return hist
}

// BlackRatio returns the fraction of pixels at the darkest level. An empty
// histogram yields 0.
func BlackRatio(hist [256]int) float64 {
	total := 0
	for _, count := range hist {
		total += count
	}
	if total == 0 {
		return 0
	}
	return float64(hist[0]) / float64(total)
}
