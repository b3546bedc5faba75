package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	billingcmd "github.com/stridebound/stridebound/internal/cmd/billing"
)

func main() {
	cfg, err := billingcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[BILLING] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := billingcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
