package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wizard.dev/pluginsdk/internal/interfaces/cli"
	"wizard.dev/pluginsdk/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	cli.Execute(ctx, container.GetCLIContainer())
}
