// cmd/backup/main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/semmidev/robobak/internal/cli"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return cli.NewRootCmd().ExecuteContext(ctx)
}
