// Package scan orchestrates one analyzer run: list the library, evaluate each
// item through the suspect pipeline on a bounded worker pool, and dispatch the
// resulting analyze/refresh actions.
//
// A file lock keeps concurrent runs against the same server from doubling up
// on remediation calls. Items never share state, so pool width is purely a
// throughput knob; width 1 reproduces the sequential reference behavior.
package scan
