package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bybud-web/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCmd(nil))
	stop()
	os.Exit(code)
}
