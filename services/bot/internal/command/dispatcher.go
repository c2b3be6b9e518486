package command

import (
	"context"
	"strings"

	"dorm-link/pkg/logger"
)

// Handler executes one chat command. args are the whitespace-separated
// tokens after the command itself. The returned string is the reply text.
type Handler func(ctx context.Context, chatID string, args []string) string

// Dispatcher routes inbound chat messages to command handlers. The command
// table is built once at construction and never mutated afterwards, so
// Dispatch is safe to call from concurrent update handlers.
type Dispatcher struct {
	handlers map[string]Handler
	fallback Handler
	logger   *logger.Logger
}

func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		logger:   log,
	}
}

// Register adds a handler for a command like "/auth". Must be called during
// startup, before Dispatch is first used.
func (d *Dispatcher) Register(name string, handler Handler) {
	d.handlers[strings.ToLower(name)] = handler
}

// SetFallback sets the handler invoked for unrecognized commands.
func (d *Dispatcher) SetFallback(handler Handler) {
	d.fallback = handler
}

// Dispatch parses a raw message text and runs the matching handler. A panic
// inside a handler is contained to that one message.
func (d *Dispatcher) Dispatch(ctx context.Context, chatID, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("[BOT] Command handler panicked for chat %s: %v", chatID, r)
			reply = "Something went wrong. Please try again later."
		}
	}()

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	name := strings.ToLower(fields[0])
	handler, ok := d.handlers[name]
	if !ok {
		if d.fallback != nil {
			return d.fallback(ctx, chatID, fields[1:])
		}
		return ""
	}

	return handler(ctx, chatID, fields[1:])
}
