// Package config defines the YAML settings shared by officectl and
// eventlog-server and provides helpers to load, validate and save them.
//
// A single file describes the facility (identity, starting mode, simulated
// device banks), how to reach the event log, which notifier to use and how
// the event log collector listens.
package config
