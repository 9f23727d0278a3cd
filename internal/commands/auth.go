package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"todoist/internal/auth"
	"todoist/internal/backend/todoist"
	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/secrets"
	"todoist/internal/service"
)

func init() {
	Register(&AuthCmd{})
}

// newAPIClient builds a client for token verification. Swapped in tests.
var newAPIClient = func(token string) service.Service {
	return todoist.New(token)
}

// AuthCmd runs the OAuth flow or reports authentication status.
type AuthCmd struct {
	manual bool
	code   string
	status bool

	// In is the confirmation/paste input stream. os.Stdin if nil.
	In io.Reader
}

func (c *AuthCmd) Name() string     { return "auth" }
func (c *AuthCmd) Synopsis() string { return "Authenticate with Todoist (OAuth)" }
func (c *AuthCmd) Usage() string {
	return "todoist auth [common flags] [--manual] [--code <url-or-code>] [--status]"
}
func (c *AuthCmd) NeedsAuth() bool { return false }

func (c *AuthCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.manual, "manual", false, "")
	fs.StringVar(&c.code, "code", "", "")
	fs.BoolVar(&c.status, "status", false, "")
}

func (c *AuthCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.status {
		return c.runStatus(ctx, out)
	}
	return c.runFlow(ctx, cfg, out, errOut)
}

// runStatus reports whether a token is present and whether it still
// works, distinguishing a revoked token from network trouble.
func (c *AuthCmd) runStatus(ctx context.Context, out io.Writer) int {
	token, source, _ := secrets.Token()
	if token == "" {
		fmt.Fprintln(out, "Not authenticated. Run 'todoist auth' to connect your Todoist account.")
		return exitcode.Failure
	}

	_, err := newAPIClient(token).Projects(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Authenticated with Todoist (token from %s).\n", source)
		return exitcode.Success
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintln(out, "Token revoked or expired. Run 'todoist auth' to re-authenticate.")
		return exitcode.Failure
	default:
		// Network trouble is not an auth failure.
		fmt.Fprintf(out, "Token present (could not verify: %v)\n", err)
		return exitcode.Success
	}
}

func (c *AuthCmd) runFlow(ctx context.Context, cfg *config.Config, out, errOut io.Writer) int {
	if !cfg.HasClientCredentials() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n\n", config.ClientCredentialsFile, cfg.Dir)
		fmt.Fprintln(errOut, "To set up OAuth:")
		fmt.Fprintln(errOut, "  1. Register an app at https://developer.todoist.com")
		fmt.Fprintf(errOut, "  2. Create %s with:\n", cfg.ClientCredentialsPath())
		fmt.Fprintln(errOut, `     {"client_id": "your_id", "client_secret": "your_secret"}`)
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Alternatively, use a personal API token:")
		fmt.Fprintln(errOut, "  1. Get it from https://todoist.com/prefs/integrations")
		fmt.Fprintf(errOut, "  2. Set: export %s=\"TOKEN\"\n", secrets.EnvVar)
		return exitcode.Failure
	}

	creds, err := cfg.LoadClientCredentials()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.Failure
	}

	in := c.In
	if in == nil {
		in = os.Stdin
	}

	flow := &auth.Flow{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Manual:       c.manual,
		Code:         c.code,
		In:           in,
		Err:          errOut,
	}

	token, err := flow.Run(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.Failure
	}

	// Only the access token is persisted; the client secret stays in
	// client_credentials.json and never enters the secret store.
	source, err := secrets.Store(token)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to store token: %v\n", err)
		return exitcode.Failure
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "Authenticated with Todoist. Token stored in %s.\n", source)
	}
	return exitcode.Success
}
