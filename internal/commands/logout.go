package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/secrets"
	"todoist/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd removes the stored token from the keychain and token file.
// A token supplied via the environment variable is untouched.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string     { return "logout" }
func (c *LogoutCmd) Synopsis() string { return "Remove the stored API token" }
func (c *LogoutCmd) Usage() string    { return "todoist logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool  { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := secrets.Delete(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.Failure
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
