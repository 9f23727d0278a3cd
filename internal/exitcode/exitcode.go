// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit code convention: 0 success, 1 failure. Error text goes to
// stderr, data as JSON to stdout.
const (
	// Success indicates successful completion.
	Success = 0

	// Failure indicates any error: bad args, auth, network, not found.
	Failure = 1
)
