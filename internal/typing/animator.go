package typing

import (
	"context"
	"time"
)

// Animator drives a Controller from its own goroutine. Exactly one timer is
// pending at any moment: each tick runs Step, delivers the resulting Frame,
// and only then schedules the next tick with the delay Step returned.
type Animator struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Animate starts the tick loop. fn is called from the animator goroutine
// after every tick; it must not call back into the controller. The loop ends
// when ctx is cancelled or Stop is called.
func Animate(ctx context.Context, c *Controller, fn func(Frame)) *Animator {
	ctx, cancel := context.WithCancel(ctx)
	a := &Animator{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go a.run(ctx, c, fn)
	return a
}

func (a *Animator) run(ctx context.Context, c *Controller, fn func(Frame)) {
	defer close(a.done)

	// First tick fires immediately so the first character shows up without
	// an artificial lead-in delay.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			delay := c.Step()
			fn(c.Frame())
			timer.Reset(delay)
		}
	}
}

// Stop cancels the pending tick and waits for the animator goroutine to
// exit. After Stop returns, no further Step or fn call happens: a late timer
// firing into a torn-down view is structurally impossible.
func (a *Animator) Stop() {
	a.cancel()
	<-a.done
}
