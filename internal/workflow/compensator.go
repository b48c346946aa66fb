// Package workflow holds the compensating-action bookkeeping for
// multi-step writes against a store that offers no transaction spanning
// several statements.
package workflow

import (
	"context"

	"go.uber.org/zap"
)

type action struct {
	name string
	fn   func(ctx context.Context) error
}

// Compensator collects undo actions for the steps of a workflow that have
// completed so far. On failure of a later step the caller runs Rollback;
// once the workflow passes the point of no return it calls Clear.
type Compensator struct {
	actions []action
	logger  *zap.Logger
}

func NewCompensator(logger *zap.Logger) *Compensator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compensator{logger: logger}
}

func (c *Compensator) Add(name string, fn func(ctx context.Context) error) {
	c.actions = append(c.actions, action{name: name, fn: fn})
}

// Clear drops all registered actions, committing the work done so far.
func (c *Compensator) Clear() {
	c.actions = nil
}

// Rollback runs the registered actions in reverse order. Failures are
// logged and do not stop the remaining actions; the caller still surfaces
// the error that triggered the rollback.
func (c *Compensator) Rollback(ctx context.Context) {
	for i := len(c.actions) - 1; i >= 0; i-- {
		a := c.actions[i]

		c.logger.Info("compensating", zap.String("action", a.name))

		if err := a.fn(ctx); err != nil {
			c.logger.Error("compensation failed",
				zap.String("action", a.name),
				zap.Error(err))
		}
	}

	c.actions = nil
}
