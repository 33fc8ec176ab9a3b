// Package logging provides structured logging for pagerterm.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used by the configuration resolver, the settings store and the
// menu engine.
//
// # Log Levels
//
//   - Debug: menu transitions, raw record dumps
//   - Info: documents loaded, settings saved, profiles applied
//   - Warn: degraded paths (absent documents, settings reset, malformed fields)
//   - Error: collaborator failures (blob writes, serial port)
//
// # Configuration
//
// Logging is silent unless a level is given, either through the --log-level
// flag or the PAGERTERM_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Output goes to stderr so it never interleaves with the Bubble Tea screen
// or with command output written to stdout.
//
// # Structured Logging
//
//	logging.LogDocument("/config/pagerterm.yaml", "loaded")
//	logging.LogSettings("reset", zap.Error(err))
package logging
