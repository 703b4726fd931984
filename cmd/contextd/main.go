package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	contextdcmd "github.com/louisbranch/dealmate-context/internal/cmd/contextd"
	platformcmd "github.com/louisbranch/dealmate-context/internal/platform/cmd"
	"github.com/louisbranch/dealmate-context/internal/platform/branding"
	"github.com/louisbranch/dealmate-context/internal/platform/config"
)

// main indexes the context directory and serves it on the configured transport.
func main() {
	log.SetPrefix("[contextd] ")
	cfg, err := contextdcmd.ParseConfig(pflag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	if cfg.Version {
		fmt.Printf("%s %s\n", branding.ServerName, branding.Version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceContextd, func(ctx context.Context) error {
		return contextdcmd.Run(ctx, cfg)
	}); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
