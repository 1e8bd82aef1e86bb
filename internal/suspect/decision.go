package suspect

// Action is the terminal remediation decision for one catalog item.
type Action int

const (
	// NoAction leaves the item alone.
	NoAction Action = iota
	// ReAnalyze forces full regeneration of the item's derived metadata and
	// thumbnail.
	ReAnalyze
	// Refresh re-fetches metadata only, advancing updatedAt so the item stops
	// tripping the temporal heuristic.
	Refresh
)

func (a Action) String() string {
	switch a {
	case ReAnalyze:
		return "analyze"
	case Refresh:
		return "refresh"
	default:
		return "none"
	}
}

// ShouldCheckBlackness is the gating policy for the expensive thumbnail check:
// it runs only for temporally suspicious items, or when the operator forces it.
func ShouldCheckBlackness(suspicious, force bool) bool {
	return suspicious || force
}

// Decide maps the evaluation booleans onto exactly one action:
//
//	suspicious  black  forced   action
//	true        true   -        ReAnalyze   (still black: regenerate)
//	true        false  -        Refresh     (false alarm: advance updatedAt)
//	false       true   true     ReAnalyze   (forced check caught it anyway)
//	false       -      -        NoAction
//
// When the blackness check was gated off, callers pass black=false.
func Decide(suspicious, black, forced bool) Action {
	switch {
	case suspicious && black:
		return ReAnalyze
	case suspicious:
		return Refresh
	case forced && black:
		return ReAnalyze
	default:
		return NoAction
	}
}
