package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samirrijal/mapdispatch/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.DefaultEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "navigate:", err)
		stop()
		os.Exit(1)
	}
}
