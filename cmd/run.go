package cmd

import (
	"context"
	"io"

	"nontransitive/config"
	"nontransitive/console"

	log "github.com/sirupsen/logrus"
)

// Run plays the console game until the user exits
func Run(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	a, err := newApp(ctx, cfg, args)
	if err != nil {
		return err
	}
	defer a.Close()

	log.WithFields(log.Fields{
		"dice":      a.set.Len(),
		"fairRolls": cfg.FairRolls,
		"strategy":  cfg.ComputerStrategy,
	}).Debug("Starting console game")

	game := console.NewGame(a.game, a.fairness, console.Options{FairRolls: cfg.FairRolls}, in, out)
	return game.Run(ctx)
}
