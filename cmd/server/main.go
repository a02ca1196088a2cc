package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/arpg/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults when empty)")
	flag.Parse()

	srv, err := injector.InitializeServer(injector.ConfigPath(*configPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing server:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = srv.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Server stopped with error:", err)
		os.Exit(1)
	}
}
