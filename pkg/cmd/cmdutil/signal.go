package cmdutil

import (
	"context"
	"os"
	"os/signal"
)

// WaitForSignal blocks until one of the given signals arrives or ctx is
// canceled. It returns the received signal, or nil when the context ended
// the wait.
func WaitForSignal(ctx context.Context, signals ...os.Signal) os.Signal {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, signals...)
	defer signal.Stop(sigC)

	select {
	case sig := <-sigC:
		return sig

	case <-ctx.Done():
		return nil
	}
}
