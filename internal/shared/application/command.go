// Package application holds the building blocks shared by all command and
// query handlers: handler contracts, unit-of-work orchestration, and event
// metadata propagation.
package application

import "context"

// Command mutates system state.
type Command interface {
	CommandName() string
}

// CommandHandler executes a single command type.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) error
}
