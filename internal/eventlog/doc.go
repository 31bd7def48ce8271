// Package eventlog implements the remote facility event log.
//
// Entries travel over gRPC as google.protobuf.Struct messages through a
// hand-described EventLogService, so no generated stubs are required. The
// package provides the client used by the controller, the server adapter used
// by the collector and an append-only JSON-lines store for received entries.
package eventlog
