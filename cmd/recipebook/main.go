package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/recipebook/cmd/recipebook/commands"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("recipebook"),
		kong.Description("Recipe site generator with incremental static regeneration"),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	if err := parser.Run(&commands.Global{}, cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
