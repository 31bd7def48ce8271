// Package lock guarantees a single controller process per facility.
//
// A lock is a PID file created exclusively in a lock directory. A file left
// behind by a process that is no longer running is treated as stale and
// replaced.
package lock
