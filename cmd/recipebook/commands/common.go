// Package commands implements the recipebook command line.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/recipebook/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"recipebook.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build      BuildCmd      `cmd:"" help:"Prerender every recipe and write a static site"`
	Serve      ServeCmd      `cmd:"" help:"Serve the site with on-demand and background regeneration"`
	Routes     RoutesCmd     `cmd:"" help:"List the recipe routes the content space provides"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
	Revalidate RevalidateCmd `cmd:"" help:"Ask running servers to regenerate a page"`
}

// AfterApply runs after flag parsing and installs a bootstrap logger.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// load reads the configuration and replaces the bootstrap logger with the configured one.
func (c *CLI) load(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return cfg, nil
}
