package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	rerendercmd "github.com/goliatone/go-markitup/internal/commands/rerender"
	"github.com/goliatone/go-markitup/internal/di"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// RerenderCron schedules a full re-render of every document. Empty
	// disables the schedule.
	RerenderCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
	Rerender      *rerendercmd.RerenderDocumentsHandler
}

// RegisterContainerCommands builds the command handlers exposed by the
// container, reusing the container's own handler when Features.Commands is on
// and no logger override is given, and optionally registers them with registry, dispatcher and cron
// integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	if handler := container.RerenderHandler(); handler != nil && opts.LoggerProvider == nil {
		register(handler)
		result.Rerender = handler
	} else if service := container.DocumentService(); service != nil {
		handler, err := rerendercmd.RegisterRerenderCommands(nil, service, provider)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			register(handler)
			result.Rerender = handler
		}
	}

	if expr := strings.TrimSpace(opts.RerenderCron); expr != "" && opts.CronRegistrar != nil && result.Rerender != nil {
		cfg := command.HandlerConfig{Expression: expr}
		if err := rerendercmd.RegisterRerenderCron(rerendercmd.CronRegistrar(opts.CronRegistrar), result.Rerender, cfg, rerendercmd.RerenderDocumentsCommand{}); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	if len(result.Handlers) == 0 {
		if errs != nil {
			return result, errs
		}
		return result, errors.New("no command handlers registered; ensure the document service is configured")
	}

	return result, errs
}
