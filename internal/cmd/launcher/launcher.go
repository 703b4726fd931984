// Package launcher parses launcher configuration and runs the selected server
// runtime to completion.
package launcher

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"

	platformcmd "github.com/louisbranch/dealmate-context/internal/platform/cmd"
	"github.com/louisbranch/dealmate-context/internal/services/launcher"
)

// Config holds launcher command configuration.
type Config struct {
	Runtime   string `env:"MCP_RUNTIME"    envDefault:"auto" validate:"oneof=auto native node python"`
	ServerDir string `env:"MCP_SERVER_DIR"`
}

// ParseConfig parses environment and flags into a Config. An empty server
// directory resolves to the launcher executable's directory.
func ParseConfig(fs *pflag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.ServerDir) == "" {
		cfg.ServerDir = launcher.DefaultServerDir()
	}
	return cfg, nil
}

func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Runtime, "runtime", cfg.Runtime, "runtime: auto, native, node or python")
	fs.StringVar(&cfg.ServerDir, "server-dir", cfg.ServerDir, "directory holding the server implementations")
}

// Deps are the process-level collaborators of Run.
type Deps struct {
	Probe   launcher.Prober
	Signals <-chan os.Signal
}

// Run detects runtimes, starts the chosen server and returns its exit code.
func Run(ctx context.Context, cfg Config, deps Deps) (int, error) {
	avail := launcher.Detect(ctx, deps.Probe, cfg.ServerDir)
	candidate, err := launcher.Select(launcher.Runtime(cfg.Runtime), avail, cfg.ServerDir)
	if err != nil {
		return 1, err
	}
	log.Printf("Selected runtime: %s", candidate.Runtime)

	return launcher.Start(ctx, launcher.Process{
		Candidate: candidate,
		Dir:       cfg.ServerDir,
	}, deps.Signals)
}
