// Package logging provides structured logging for the checkpoint CLI using slog.
//
// Text output goes through [Handler], which colorizes level names when the
// destination is a terminal. JSON output uses the standard library handler.
// [MultiHandler] fans records out to several handlers, which is how the CLI
// writes to the terminal and to a --log-file at the same time.
//
// Verbosity flags map onto levels with [LevelFromVerbosity]; the extra
// [LevelTrace] level carries per-entry scan and copy decisions.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//	})
//	logger.Debug("scanning", "root", root)
//
// Tests use [ForTest] so output only shows up on failure or with -v.
package logging
