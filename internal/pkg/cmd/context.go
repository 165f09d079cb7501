package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithInterrupt returns a Context that is canceled on SIGINT or SIGTERM,
// so an in-flight search or ingest can stop polling and shut down
// cleanly instead of being killed mid-call.
func WithInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	ctxWithCancel, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupts)
		select {
		case <-interrupts:
		case <-ctx.Done():
		}
	}()
	return ctxWithCancel, cancel
}
