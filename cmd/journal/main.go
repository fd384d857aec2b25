package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"journal/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.New().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "journal:", err)
		stop()
		os.Exit(1)
	}
}
