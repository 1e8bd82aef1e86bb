// Package services defines shared error utilities consumed by the scan runner
// and the Plex integration.
//
// It provides structured error markers plus the Wrap helper so collaborator
// failures (listing, thumbnail fetch, remediation calls) carry a consistent
// classification that the runner can log and count without string matching.
package services
