// Package main is the entry point for the todoist CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"todoist/internal/backend/todoist"
	"todoist/internal/cli"
	"todoist/internal/commands"
	"todoist/internal/config"
	"todoist/internal/secrets"
	"todoist/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The factory resolves the token at dispatch time so auth, help,
	// and doctor keep working without one.
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		token, _, err := secrets.Token()
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, errors.New("not authenticated (run: todoist auth, or set " + secrets.EnvVar + ")")
		}
		return todoist.New(token), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
