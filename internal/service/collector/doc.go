// Package collector runs the event log collector behind eventlog-server.
//
// It receives facility events over gRPC, appends them to a JSON-lines store,
// logs them and optionally exposes Prometheus metrics.
package collector
