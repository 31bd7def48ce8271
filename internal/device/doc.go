// Package device provides in-process door, light and fire alarm banks.
//
// Each bank is a fixed set of numbered units, some of which may be marked
// faulty. Banks render the comma-separated status text consumed by the office
// controller and refuse bank-wide actions while any unit is faulty.
package device
