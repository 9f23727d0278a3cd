package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/secrets"
	"todoist/internal/service"
)

func init() {
	Register(&DoctorCmd{})
}

// DoctorCmd checks the CLI setup and diagnoses common issues.
type DoctorCmd struct{}

func (c *DoctorCmd) Name() string     { return "doctor" }
func (c *DoctorCmd) Synopsis() string { return "Check CLI setup and diagnose issues" }
func (c *DoctorCmd) Usage() string    { return "todoist doctor [common flags]" }
func (c *DoctorCmd) NeedsAuth() bool  { return false }

func (c *DoctorCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoctorCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	passed, failed := 0, 0
	check := func(name string, ok bool, detail string) {
		if ok {
			passed++
			fmt.Fprintf(out, "  ok  %s\n", name)
		} else {
			failed++
			fmt.Fprintf(out, "FAIL  %s\n", name)
			if detail != "" {
				fmt.Fprintf(out, "      %s\n", detail)
			}
		}
	}

	fmt.Fprintln(out, "Checking todoist setup...")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Config]")
	_, statErr := os.Stat(cfg.Dir)
	check("config directory exists: "+cfg.Dir, statErr == nil,
		"Run 'todoist auth' to create it")
	check(config.ClientCredentialsFile+" present", cfg.HasClientCredentials(),
		"Needed for OAuth only; a "+secrets.EnvVar+" token works without it")

	fmt.Fprintln(out)
	fmt.Fprintln(out, "[Authentication]")
	token, source, _ := secrets.Token()
	check("API token found", token != "",
		"Run 'todoist auth' or set "+secrets.EnvVar)
	if token != "" {
		fmt.Fprintf(out, "      (token from %s)\n", source)
	}

	if token != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "[Network]")
		_, err := newAPIClient(token).Projects(ctx)
		detail := ""
		if err != nil {
			detail = err.Error()
		}
		check("API connection", err == nil, detail)
	}

	fmt.Fprintln(out)
	total := passed + failed
	if failed == 0 {
		fmt.Fprintf(out, "All %d checks passed. Setup looks good!\n", total)
		return exitcode.Success
	}
	fmt.Fprintf(out, "%d/%d checks passed, %d failed.\n", passed, total, failed)
	return exitcode.Failure
}
