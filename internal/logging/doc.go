// Package logging provides structured logging for rue.
//
// This package wraps a global zap logger with convenience functions and a few
// domain helpers for discovery and pairing events. Logging is silent unless a
// level is passed to Initialize or set through RUE_LOG_LEVEL, so interactive
// output is never interleaved with log lines by default.
//
// # Log Levels
//
//   - Debug: every authorization attempt and round transition
//   - Info: discovery results, the accepted credential
//   - Warn: discovery failures, persistence problems
//   - Error: terminal failures
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Bridge discovered", zap.String("bridge", "192.168.1.20"))
//
// Output goes to stderr in console format so stdout stays usable for
// machine-readable command output such as `rue load --json`.
package logging
