package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/goliatone/go-markitup/internal/di"
	"github.com/goliatone/go-markitup/internal/runtimeconfig"
)

type subcommand func(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error

var subcommands = map[string]subcommand{
	"serve":    runServe,
	"render":   runRender,
	"rerender": runRerender,
	"migrate":  runMigrate,
}

// containerBuilder is swapped in tests.
var containerBuilder = func(cfg runtimeconfig.Config) (*di.Container, error) {
	return di.NewContainer(cfg)
}

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS env value.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("markitup: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command; expected one of %v", commandNames())
	}
	cmd, ok := subcommands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q; expected one of %v", args[0], commandNames())
	}
	return cmd(ctx, args[1:], stdin, stdout)
}

func commandNames() []string {
	names := make([]string, 0, len(subcommands))
	for name := range subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// openContainer loads configuration from path and the environment and builds
// the container. Callers own the returned container.
func openContainer(path string, override func(*runtimeconfig.Config)) (*di.Container, error) {
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	container, err := containerBuilder(cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap container: %w", err)
	}
	return container, nil
}
