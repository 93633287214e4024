package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roombook/pkg/logger"
)

// ShutdownFunc releases one resource. It should return once ctx is done.
type ShutdownFunc func(ctx context.Context) error

type shutdownHook struct {
	name string
	fn   ShutdownFunc
}

// Application runs a command with signal handling and releases registered
// resources afterwards, in reverse registration order.
type Application struct {
	log             *logger.Logger
	shutdownTimeout time.Duration
	hooks           []shutdownHook
}

func NewApplication(log *logger.Logger, shutdownTimeout time.Duration) *Application {
	if log == nil {
		log = logger.Nop()
	}
	return &Application{
		log:             log,
		shutdownTimeout: shutdownTimeout,
	}
}

// OnShutdown registers fn to run during Shutdown.
func (a *Application) OnShutdown(name string, fn ShutdownFunc) {
	a.hooks = append(a.hooks, shutdownHook{name: name, fn: fn})
}

// Run calls fn with a context that is cancelled on SIGINT or SIGTERM, then
// shuts down. The exit code of fn is returned unchanged.
func (a *Application) Run(ctx context.Context, fn func(ctx context.Context) int) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := fn(ctx)
	if ctx.Err() != nil {
		a.log.Info("Shutdown signal received")
	}

	if err := a.Shutdown(); err != nil {
		a.log.Error("Shutdown failed", "error", err)
	}
	return code
}

// Shutdown runs every hook, newest first, within the shutdown timeout.
func (a *Application) Shutdown() error {
	if len(a.hooks) == 0 {
		return nil
	}
	a.log.Debug("Starting graceful shutdown...", "hooks", len(a.hooks))

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		hook := a.hooks[i]
		if err := hook.fn(ctx); err != nil {
			a.log.Error("Failed to release resource", "resource", hook.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
			continue
		}
		a.log.Debug("Resource released", "resource", hook.name)
	}
	a.hooks = nil

	return errors.Join(errs...)
}
