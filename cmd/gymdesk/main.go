// Command gymdesk runs the front-desk check-in server and its maintenance tasks.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
