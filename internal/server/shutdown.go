package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// signalContext returns a context canceled on interrupt or terminate.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
