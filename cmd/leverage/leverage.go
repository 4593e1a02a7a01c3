package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Zhuoli/leverage-agent/internal/leverage/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := cmd.NewDefaultLeverageCommand()
	err := command.ExecuteContext(ctx)

	// An interrupt wins over whatever error the cancellation surfaced as.
	if ctx.Err() != nil {
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
