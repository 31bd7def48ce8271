// Package notify delivers out-of-band incident notifications.
//
// Three channels are provided: a zap-backed log notifier, SMTP e-mail and an
// HTTP webhook with exponential backoff. New selects one from configuration.
package notify
