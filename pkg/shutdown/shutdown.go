// Package shutdown wires SIGINT/SIGTERM into context cancellation. A
// signal stops new job submissions; in-flight encoder subprocesses are
// killed through their command contexts. A partially populated
// destination tree after interruption is an accepted, reported end
// state.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Context returns a child of parent that is cancelled on SIGINT or
// SIGTERM. onSignal, if non-nil, runs once when the first signal
// arrives. The returned stop function releases the signal handler.
func Context(parent context.Context, onSignal func(sig os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		signal.Stop(sigChan)
		cancel()
	}
	return ctx, stop
}
