package rerendercmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-markitup/internal/commands"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// RegisterRerenderCommands builds the rerender handler and registers it with
// reg when one is supplied.
func RegisterRerenderCommands(reg CommandRegistry, service documents.Service, provider interfaces.LoggerProvider, opts ...commands.HandlerOption[RerenderDocumentsCommand]) (*RerenderDocumentsHandler, error) {
	if service == nil {
		return nil, errors.New("rerender command registration: service is nil")
	}
	handler := NewRerenderDocumentsHandler(service, commands.CommandLogger(provider, "documents"), opts...)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}

// RegisterRerenderCron schedules msg through a cron registrar. The handler
// runs with a background context.
func RegisterRerenderCron(reg CronRegistrar, handler *RerenderDocumentsHandler, cfg command.HandlerConfig, msg RerenderDocumentsCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
