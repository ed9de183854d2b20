// Package logtail reads the end of the console's log file for the
// diagnostics overlay.
//
// # Reading Log Files
//
// The Read function uses a ring buffer to extract the last maxLines from a
// file, regardless of file size. It scans the file once and holds only
// maxLines in memory. A missing file is not an error; it simply has no lines
// yet.
//
//	lines, err := logtail.Read(path, 200)
//
// # Parsing
//
// The console logs JSON lines through zerolog. Parse turns one line into an
// Event (time, level, message, error, and the remaining fields) and Format
// renders it compactly:
//
//	08:30:00 DEBUG result discarded table=students token=7 error="stale result discarded"
//
// Lines that are not JSON (a panic trace, for instance) are kept verbatim.
package logtail
