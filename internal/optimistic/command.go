// Package optimistic runs local-first mutations against remote state: the
// intended value is applied immediately, the backend is asked to confirm,
// and a failed confirmation restores the captured previous value. A command
// only ever touches the state its closures reach, so a failure can never
// revert someone else's update.
package optimistic

import "context"

// Command is one optimistic mutation. Capture, Apply and Rollback operate on
// the caller's state under the caller's locking; Call is the backend request
// that decides whether the applied value sticks.
type Command[T any] struct {
	// Capture snapshots the value Rollback will need.
	Capture func() T
	// Apply installs the intended value locally.
	Apply func()
	// Call confirms the mutation with the backend.
	Call func(ctx context.Context) error
	// Rollback restores the captured snapshot after a failed Call.
	Rollback func(prev T)
	// Reconcile, when set, replaces the applied value with the backend's
	// canonical result after a successful Call.
	Reconcile func(ctx context.Context) error
}

// Run executes capture, apply, call and either rollback or reconcile. The
// returned error is the Call or Reconcile failure, untouched.
func (c Command[T]) Run(ctx context.Context) error {
	prev := c.Capture()
	c.Apply()
	if err := c.Call(ctx); err != nil {
		c.Rollback(prev)
		return err
	}
	if c.Reconcile != nil {
		return c.Reconcile(ctx)
	}
	return nil
}
