package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	launchercmd "github.com/louisbranch/dealmate-context/internal/cmd/launcher"
	platformcmd "github.com/louisbranch/dealmate-context/internal/platform/cmd"
	"github.com/louisbranch/dealmate-context/internal/platform/config"
)

// main picks an available server runtime, runs it with inherited stdio and
// exits with its exit code.
func main() {
	log.SetPrefix("[launcher] ")
	cfg, err := launchercmd.ParseConfig(pflag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	code := 1
	err = platformcmd.RunWithTelemetry(context.Background(), platformcmd.ServiceLauncher, func(ctx context.Context) error {
		var runErr error
		code, runErr = launchercmd.Run(ctx, cfg, launchercmd.Deps{Signals: signals})
		return runErr
	})
	if err != nil {
		log.Printf("%v", err)
	}
	os.Exit(code)
}
