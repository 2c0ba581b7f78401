package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-markitup/markup"
)

const maxInputBytes = 8 << 20

func runRender(_ context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Path to a YAML configuration file")
	formatterName := fs.StringP("formatter", "f", "", "Formatter to render with (defaults to editor.default_formatter)")
	input := fs.StringP("input", "i", "-", "File to render, - reads stdin")
	output := fs.StringP("output", "o", "-", "File to write, - writes stdout")
	list := fs.Bool("list", false, "List registered formatters and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	container, err := openContainer(*configPath, nil)
	if err != nil {
		return err
	}
	defer container.Close()

	if *list {
		for _, descriptor := range container.FormatterRegistry().List() {
			if _, err := fmt.Fprintf(stdout, "%s\t%s\n", descriptor.Name, descriptor.Description); err != nil {
				return err
			}
		}
		return nil
	}

	formatter := container.DefaultFormatter()
	if *formatterName != "" {
		resolved, err := container.FormatterRegistry().ResolveWithOptions(*formatterName, markup.Options(container.Config.Editor.FormatterOptions))
		if err != nil {
			return err
		}
		formatter = resolved
	}

	raw, err := readInput(*input, stdin)
	if err != nil {
		return err
	}

	value, err := markup.New(string(raw), formatter)
	if err != nil {
		return err
	}
	return writeOutput(*output, stdout, string(value.Rendered()))
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(io.LimitReader(stdin, maxInputBytes))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, html string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, html)
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
