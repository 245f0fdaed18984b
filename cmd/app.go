package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"nontransitive/config"
	"nontransitive/database"
	"nontransitive/dice"
	"nontransitive/events"
	"nontransitive/random"
	"nontransitive/repository"
	"nontransitive/service"

	log "github.com/sirupsen/logrus"
)

// Usage is printed after argument errors
const Usage = "Usage: nontransitive [play|serve|analyze] 2,2,4,4,9,9 6,8,1,1,8,6 7,5,3,7,5,3\n" +
	"       nontransitive migrate up|down [n]|status"

// ErrUsage marks errors caused by bad command line arguments
var ErrUsage = errors.New("invalid arguments")

// IsUsageError reports whether err should be answered with the usage line
func IsUsageError(err error) bool {
	var verr *dice.ValidationError
	return errors.Is(err, ErrUsage) || errors.Is(err, flag.ErrHelp) || errors.As(err, &verr)
}

// app bundles the services every subcommand shares
type app struct {
	set      dice.Set
	bus      *events.Bus
	game     service.GameService
	fairness service.FairnessService
	db       *database.DB
}

// newApp parses the dice and wires services. The proof ledger lives in
// Postgres when DATABASE_URL is set and in memory otherwise.
func newApp(ctx context.Context, cfg *config.Config, diceArgs []string) (*app, error) {
	set, err := dice.ParseSet(diceArgs)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	subscribeLogging(bus)

	a := &app{set: set, bus: bus}

	var uowFactory service.UnitOfWorkFactory
	if cfg.UsesDatabase() {
		db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established, proofs go to Postgres")
		a.db = db
		uowFactory = repository.NewUnitOfWorkFactory(db, bus)
	} else {
		log.Debug("No DATABASE_URL, keeping proofs in memory")
		uowFactory = repository.NewMemoryUnitOfWorkFactory(repository.NewMemoryStore(), bus)
	}

	src := random.NewCryptoSource()
	a.game = service.NewGameService(set, src, cfg.ComputerStrategy, bus)
	a.fairness = service.NewFairnessService(uowFactory, src)

	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		log.Debug("Closing database connection")
		a.db.Close()
	}
}

// subscribeLogging records every domain event at debug level
func subscribeLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeCommitmentPublished, func(ctx context.Context, e events.Event) {
		ev := e.(events.CommitmentPublishedEvent)
		log.WithFields(log.Fields{
			"roundID":  ev.RoundID,
			"purpose":  ev.Purpose,
			"rangeEnd": ev.RangeEnd,
			"hmac":     ev.HMAC,
		}).Debug("Commitment published")
	})
	bus.Subscribe(events.EventTypeCommitmentRevealed, func(ctx context.Context, e events.Event) {
		ev := e.(events.CommitmentRevealedEvent)
		log.WithFields(log.Fields{
			"roundID":        ev.RoundID,
			"computerNumber": ev.ComputerNumber,
			"userNumber":     ev.UserNumber,
			"result":         ev.Result,
		}).Debug("Commitment revealed")
	})
	bus.Subscribe(events.EventTypeRoundResolved, func(ctx context.Context, e events.Event) {
		ev := e.(events.RoundResolvedEvent)
		log.WithFields(log.Fields{
			"playerDie":    ev.PlayerDie + 1,
			"playerRoll":   ev.PlayerRoll,
			"computerDie":  ev.ComputerDie + 1,
			"computerRoll": ev.ComputerRoll,
			"outcome":      ev.Outcome.String(),
		}).Debug("Round resolved")
	})
}
