// Package suspect implements the black-thumbnail decision engine.
//
// Each catalog item passes through two checks: a temporal heuristic over the
// addedAt/updatedAt timestamps, and a pixel-level blackness classification of
// the item's thumbnail. The Decide function composes the two booleans (plus
// the force-black-check override) into exactly one remediation action. The
// blackness check is gated so thumbnail downloads only happen for items the
// temporal heuristic flagged, unless the operator forces the check.
//
// Every degradation here is policy, not accident: unparsable timestamps are
// never suspicious, an unreachable thumbnail counts as black, and an
// undecodable one does not.
package suspect
