// Package logtail reads the game log.
//
// Read returns the last N lines of a file using a ring buffer, which is how
// previous announcements are replayed at startup. Follower is the streaming
// side: each Poll returns only the complete lines appended since the last
// call. A line still being written stays buffered until its newline arrives.
//
// Follower keeps no open file handle between polls. When the file shrinks,
// as it does when the game truncates or rotates it, reading restarts from
// the beginning. A missing file is not an error; the game may not have
// created it yet.
//
// Both paths decode through an optional Decoder, since the game writes its
// log in code page 437 rather than UTF-8.
package logtail
