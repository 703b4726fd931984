// Package contextd parses server configuration, builds the service index and
// starts the selected protocol transport.
package contextd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/pflag"

	platformcmd "github.com/louisbranch/dealmate-context/internal/platform/cmd"
	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/index"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/resolver"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/resourceuri"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/scanner"
	"github.com/louisbranch/dealmate-context/internal/services/mcp/service"
)

// Config holds contextd command configuration.
type Config struct {
	ContextPath string `env:"MCP_CONTEXT_PATH" envDefault:"./context-index" validate:"required"`
	Transport   string `env:"MCP_TRANSPORT"    envDefault:"jsonl"           validate:"oneof=jsonl mcp http"`
	HTTPAddr    string `env:"MCP_HTTP_ADDR"    envDefault:"localhost:8081"  validate:"required_if=Transport http"`
	Scheme      string `env:"MCP_URI_SCHEME"   envDefault:"dealmate"        validate:"required"`
	RulesPath   string `env:"MCP_SCAN_RULES"`

	// Version asks the command to print its version and exit.
	Version bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *pflag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ContextPath, "context-path", cfg.ContextPath, "directory whose subdirectories are services")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport: jsonl, mcp or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "listen address for the http transport")
	fs.StringVar(&cfg.Scheme, "scheme", cfg.Scheme, "resource URI scheme")
	fs.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "YAML file extending the scan rules")
	fs.BoolVar(&cfg.Version, "version", false, "print version and exit")
}

// BuildCatalog scans the context root and returns the resolver over the
// resulting index. Unreadable directories are logged and skipped.
func BuildCatalog(cfg Config) (*resolver.Resolver, *index.Index, error) {
	rules := scanner.DefaultRules()
	if path := strings.TrimSpace(cfg.RulesPath); path != "" {
		loaded, err := scanner.LoadRules(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load scan rules: %w", err)
		}
		rules = loaded
	}

	idx := index.Build(cfg.ContextPath, scanner.New(rules))
	for _, warning := range idx.Warnings() {
		logWarning(warning.AsError())
	}
	services := idx.Services()
	log.Printf("Loaded %d services with context from %s", len(services), idx.Root())
	for _, name := range services {
		files, _ := idx.Files(name)
		log.Printf("service %s: %d files", name, len(files))
	}

	return resolver.New(idx, resourceuri.NewCodec(cfg.Scheme)), idx, nil
}

func logWarning(err error) {
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		log.Printf("index: %v", err)
		return
	}
	log.Printf("index: %s: %s: %v", domainErr.Code, domainErr.Message, domainErr.Cause)
}

// Run builds the catalog and serves it until ctx ends or the input closes.
func Run(ctx context.Context, cfg Config) error {
	catalog, idx, err := BuildCatalog(cfg)
	if err != nil {
		return err
	}
	log.Printf("Serving %d services (%d files) over %s", len(idx.Services()), idx.Len(), cfg.Transport)

	return service.Run(ctx, service.Config{
		Transport:   service.TransportKind(cfg.Transport),
		HTTPAddr:    cfg.HTTPAddr,
		URITemplate: catalog.Codec().Template(),
	}, catalog)
}
