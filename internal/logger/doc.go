// Package logger wraps zap for the office controller binaries:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and a per-core level option,
//   - leveled helpers (Infof, WarnKV, ErrorKV, ...).
//
// The controller and every service take a context and log through the logger
// stored in it, so facility and component names travel with the call.
package logger
