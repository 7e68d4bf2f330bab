// Package main writes Mersenne Twister output for a seed or a saved stream.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	mtrandcmd "github.com/louisbranch/twister/internal/cmd/mtrand"
	"github.com/louisbranch/twister/internal/platform/config"
)

func main() {
	cfg, err := mtrandcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[MTRAND] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mtrandcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("generate: %v", err)
	}
}
