// Package office hosts a facility controller for the officectl commands.
//
// Build assembles the simulated devices, event log client, notifier and
// metrics around one controller. Apply, Report and Shell load settings, take
// the facility lock and drive the controller from the command line.
package office
