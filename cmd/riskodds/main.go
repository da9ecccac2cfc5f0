package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	riskoddscmd "github.com/louisbranch/riskodds/internal/cmd/riskodds"
	"github.com/louisbranch/riskodds/internal/platform/config"
)

func main() {
	cfg, err := riskoddscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("riskodds: %v", err)
	}
	log.SetPrefix("[RISKODDS] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := riskoddscmd.Run(ctx, cfg, os.Stdout); err != nil {
		if riskoddscmd.IsUsageError(err) {
			config.Exitf("riskodds: %v", err)
		}
		log.Fatalf("riskodds: %v", err)
	}
}
