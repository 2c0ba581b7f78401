package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

func runMigrate(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Path to a YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	container, err := openContainer(*configPath, nil)
	if err != nil {
		return err
	}
	defer container.Close()

	if container.BunDB() == nil {
		_, err := fmt.Fprintln(stdout, "memory storage configured; nothing to migrate")
		return err
	}
	if err := container.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	_, err = fmt.Fprintln(stdout, "document schema is up to date")
	return err
}
