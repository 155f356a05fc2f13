package commands

import (
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/notify"
)

// RevalidateCmd implements the 'revalidate' command.
type RevalidateCmd struct {
	Slug string `help:"Recipe slug to regenerate" xor:"target"`
	Path string `help:"Site path to regenerate, e.g. / for the listing" xor:"target"`
}

func (r *RevalidateCmd) Run(g *Global, root *CLI) error {
	if r.Slug == "" && r.Path == "" {
		return derrors.ValidationError("one of --slug or --path is required").Build()
	}
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Notify.NATSURL) == "" {
		return derrors.ConfigError("notify.nats_url is required to publish revalidation events").Build()
	}
	ev := notify.Event{Slug: r.Slug, Path: r.Path}
	route, err := ev.Route()
	if err != nil {
		return err
	}

	pub, err := notify.NewPublisher(cfg.Notify, g.Logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	if err := pub.Publish(ev); err != nil {
		return err
	}
	fmt.Printf("Requested regeneration of %s\n", route)
	return nil
}
