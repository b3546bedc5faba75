package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	accountcmd "github.com/stridebound/stridebound/internal/cmd/account"
)

func main() {
	cfg, err := accountcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ACCOUNT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := accountcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
