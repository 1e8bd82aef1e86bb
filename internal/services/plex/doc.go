// Package plex implements the Plex Media Server collaborators used by the
// scan runner: library listing, thumbnail retrieval, and the analyze/refresh
// remediation calls.
//
// Every request carries the X-Plex-Token and an explicit timeout. The Client
// accepts any HTTPDoer so tests can substitute recorded transports.
package plex
