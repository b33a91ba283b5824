// Package errors provides error handling conventions for the checkpoint CLI.
//
// It re-exports the wrapping helpers of github.com/cockroachdb/errors so the
// rest of the module can import a single errors package, defines sentinel
// errors for common failure conditions, and provides the ExitError type used
// to map failures to process exit codes.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, ckerrors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := ckerrors.NewUserError(snapshot.ErrNotFound, "Run: checkpoint list")
//	os.Exit(ckerrors.ExitCode(err))
package errors
