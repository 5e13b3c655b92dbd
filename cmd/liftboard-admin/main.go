// Package main runs liftboard administration commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	admincmd "github.com/louisbranch/liftboard/internal/cmd/admin"
)

func main() {
	cfg, err := admincmd.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := admincmd.Execute(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "liftboard-admin: %v\n", err)
		stop()
		os.Exit(1)
	}
}
