package service

import "errors"

// Error taxonomy for backend failures. The backend classifies HTTP
// statuses and transport errors into these sentinels so commands can
// branch with errors.Is instead of matching response text.
var (
	// ErrNotFound indicates an invalid or nonexistent resource ID,
	// or a name that matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing, expired, or revoked token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the API rejected the request with 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the request exceeded the timeout budget.
	ErrTimeout = errors.New("request timed out")

	// ErrConnection indicates the API could not be reached at all.
	ErrConnection = errors.New("connection failed")

	// ErrWorkspaceMove indicates a task move rejected because source
	// and destination projects live in different workspaces.
	ErrWorkspaceMove = errors.New("cross-workspace move rejected")
)
