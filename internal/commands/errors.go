package commands

import (
	"errors"
	"fmt"
	"io"

	"todoist/internal/exitcode"
	"todoist/internal/service"
)

// fail maps a backend error to a distinct, actionable stderr message
// and returns the failure exit code. Raw HTTP errors never reach the
// user: everything goes through the service error taxonomy.
func fail(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrTimeout):
		fmt.Fprintf(errOut, "error: %v\n", err)
		fmt.Fprintln(errOut, "Check your network connection or try again.")
	case errors.Is(err, service.ErrConnection):
		fmt.Fprintln(errOut, "error: could not connect to Todoist")
		fmt.Fprintln(errOut, "Check your network connection.")
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintln(errOut, "error: token expired or revoked (run: todoist auth)")
	case errors.Is(err, service.ErrRateLimited):
		fmt.Fprintln(errOut, "error: rate limited by Todoist. Wait a moment and retry.")
	case errors.Is(err, service.ErrWorkspaceMove):
		fmt.Fprintln(errOut, "error: cannot move tasks between workspaces (personal <-> team)")
		fmt.Fprintln(errOut, "Workaround: complete the task and recreate it in the target project.")
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.Failure
}

// failNotFound prints a resource-specific not-found message.
func failNotFound(errOut io.Writer, kind, name string) int {
	fmt.Fprintf(errOut, "error: %s not found: %s\n", kind, name)
	return exitcode.Failure
}
