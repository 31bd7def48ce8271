// Package office contains the facility state controller.
//
// A Controller owns the identity and mode of one office, validates requested
// mode changes against a fixed transition table, drives door, light and fire
// alarm actions on entry into a mode, and aggregates device health into a
// status report. Devices, the event log and the notifier are optional
// collaborators reached through the narrow interfaces declared here.
package office
