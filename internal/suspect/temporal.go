package suspect

import (
	"strconv"
	"strings"
	"time"
)

// Suspicious reports whether an item's metadata was updated so soon after it
// was added that the update was probably an ingestion side effect, such as an
// auto-generated thumbnail. Both timestamps arrive as raw strings from the
// server; anything that does not parse as a non-negative integer fails closed
// to "not suspicious".
func Suspicious(addedAt, updatedAt string, threshold time.Duration) bool {
	added, ok := parseUnixSeconds(addedAt)
	if !ok {
		return false
	}
	updated, ok := parseUnixSeconds(updatedAt)
	if !ok {
		return false
	}

	// The diff may be negative when metadata edits predate the add timestamp;
	// that still counts as inside the window.
	diff := time.Duration(updated-added) * time.Second
	return diff < threshold
}

func parseUnixSeconds(value string) (int64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 63)
	if err != nil {
		return 0, false
	}
	return int64(parsed), true
}
