// Package logger provides leveled, colored logging for tuikit.
//
// # Verbosity Levels
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always shown on stderr.
//
// # Usage
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("loaded %d tasks", len(rows))
//
// Library packages take a Logger through their options and fall back to
// Silent() when none is given.
package logger
