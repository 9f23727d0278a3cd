package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/service"
)

// Version is the application version. Set at build time via
// -ldflags "-X todoist/internal/commands.Version=...".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Name() string     { return "version" }
func (c *VersionCmd) Synopsis() string { return "Print version" }
func (c *VersionCmd) Usage() string    { return "todoist version" }
func (c *VersionCmd) NeedsAuth() bool  { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "todoist %s (%s)\n", Version, runtime.Version())
	return exitcode.Success
}
