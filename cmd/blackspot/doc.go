// Command blackspot scans a Plex library section for items whose thumbnail
// was likely auto-generated as a black frame, and asks the server to
// re-analyze or refresh the affected metadata.
package main
