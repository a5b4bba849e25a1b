// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error: bad args, unknown client or task, or a
	// request the backend rejected as invalid.
	UserError = 1

	// AuthError indicates rejected credentials or a missing Google login.
	AuthError = 2

	// BackendError indicates a backend, network or contract failure.
	BackendError = 3
)
