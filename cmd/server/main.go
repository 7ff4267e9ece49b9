// Command tempo starts the scheduling backend.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/planvine/tempo-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("tempo: %v", err)
	}
}
