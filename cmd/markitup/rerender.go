package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-markitup/commands"
	rerendercmd "github.com/goliatone/go-markitup/internal/commands/rerender"
	"github.com/goliatone/go-markitup/internal/yamlutil"
	"github.com/goliatone/go-markitup/markup"
)

func runRerender(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("rerender", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Path to a YAML configuration file")
	ids := fs.StringSlice("id", nil, "Document IDs to re-render (defaults to all documents)")
	formatterName := fs.StringP("formatter", "f", "", "Render with this formatter instead of the configured one")
	options := fs.StringToString("option", nil, "Formatter option as key=value; values are parsed as YAML scalars")
	dryRun := fs.Bool("dry-run", false, "Report changes without persisting them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg := rerendercmd.RerenderDocumentsCommand{
		Formatter: *formatterName,
		DryRun:    *dryRun,
	}
	for _, raw := range *ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse id %q: %w", raw, err)
		}
		msg.IDs = append(msg.IDs, id)
	}
	if len(*options) > 0 {
		parsed, err := parseOptions(*options)
		if err != nil {
			return err
		}
		msg.Options = parsed
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	container, err := openContainer(*configPath, nil)
	if err != nil {
		return err
	}
	defer container.Close()

	result, err := commands.RegisterContainerCommands(container, commands.RegistrationOptions{})
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	if err := result.Rerender.Execute(ctx, msg); err != nil {
		return fmt.Errorf("execute rerender command: %w", err)
	}

	last := result.Rerender.LastResult()
	verb := "updated"
	if msg.DryRun {
		verb = "would update"
	}
	_, err = fmt.Fprintf(stdout, "processed %d documents, %s %d\n", last.Processed, verb, len(last.Changed))
	return err
}

func parseOptions(raw map[string]string) (markup.Options, error) {
	out := make(markup.Options, len(raw))
	for key, value := range raw {
		var parsed any
		if err := yamlutil.Unmarshal([]byte(value), &parsed); err != nil {
			return nil, fmt.Errorf("parse option %s: %w", key, err)
		}
		out[key] = parsed
	}
	return out, nil
}
