package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	boardcmd "github.com/stridebound/stridebound/internal/cmd/board"
)

func main() {
	cfg, err := boardcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[BOARD] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := boardcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
