// Package main runs every StepXP backend service in one process for local
// development and single-container deploys.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	accountcmd "github.com/stridebound/stridebound/internal/cmd/account"
	billingcmd "github.com/stridebound/stridebound/internal/cmd/billing"
	boardcmd "github.com/stridebound/stridebound/internal/cmd/board"
	progressioncmd "github.com/stridebound/stridebound/internal/cmd/progression"
)

func main() {
	progressionFlags := flag.NewFlagSet("progression", flag.ExitOnError)
	progressionCfg, err := progressioncmd.ParseConfig(progressionFlags, nil)
	if err != nil {
		log.Fatalf("parse progression config: %v", err)
	}
	boardFlags := flag.NewFlagSet("board", flag.ExitOnError)
	boardCfg, err := boardcmd.ParseConfig(boardFlags, nil)
	if err != nil {
		log.Fatalf("parse board config: %v", err)
	}
	accountFlags := flag.NewFlagSet("account", flag.ExitOnError)
	accountCfg, err := accountcmd.ParseConfig(accountFlags, nil)
	if err != nil {
		log.Fatalf("parse account config: %v", err)
	}
	billingFlags := flag.NewFlagSet("billing", flag.ExitOnError)
	billingCfg, err := billingcmd.ParseConfig(billingFlags, nil)
	if err != nil {
		log.Fatalf("parse billing config: %v", err)
	}

	log.SetPrefix("[STEPXP] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return progressioncmd.Run(ctx, progressionCfg) })
	group.Go(func() error { return boardcmd.Run(ctx, boardCfg) })
	group.Go(func() error { return accountcmd.Run(ctx, accountCfg) })
	group.Go(func() error { return billingcmd.Run(ctx, billingCfg) })

	if err := group.Wait(); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
