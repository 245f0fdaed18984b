package service

import (
	"context"
	"fmt"

	"nontransitive/dice"
	"nontransitive/events"
	"nontransitive/models"
	"nontransitive/probability"
	"nontransitive/random"

	log "github.com/sirupsen/logrus"
)

type gameService struct {
	set      dice.Set
	cache    *probability.Cache
	source   random.Source
	strategy models.ComputerStrategy
	eventBus *events.Bus
}

// NewGameService creates a new game service. eventBus may be nil.
func NewGameService(set dice.Set, source random.Source, strategy models.ComputerStrategy, eventBus *events.Bus) GameService {
	if !strategy.Valid() {
		strategy = models.StrategyRandom
	}
	return &gameService{
		set:      set,
		cache:    probability.NewCache(),
		source:   source,
		strategy: strategy,
		eventBus: eventBus,
	}
}

func (s *gameService) Dice() dice.Set {
	return s.set
}

func (s *gameService) Probabilities() probability.Matrix {
	return s.cache.Get(s.set)
}

func (s *gameService) ChooseComputerDie(ctx context.Context, playerDie int) (int, error) {
	if !s.set.Valid(playerDie) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDie, playerDie)
	}

	if s.strategy == models.StrategyCounter {
		die, p := probability.BestResponse(s.Probabilities(), playerDie)
		log.WithFields(log.Fields{
			"playerDie":   playerDie,
			"computerDie": die,
			"winChance":   p,
		}).Debug("Computer picked best response")
		return die, nil
	}

	die, err := s.source.IntN(s.set.Len())
	if err != nil {
		return 0, fmt.Errorf("failed to choose computer die: %w", err)
	}
	return die, nil
}

func (s *gameService) Roll(ctx context.Context, die int) (int, error) {
	if !s.set.Valid(die) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDie, die)
	}
	return s.set.Die(die).Roll(s.source)
}

func (s *gameService) Resolve(ctx context.Context, round *models.RoundResult) *models.RoundResult {
	round.Outcome = dice.Decide(round.PlayerRoll, round.ComputerRoll)

	if s.eventBus != nil {
		s.eventBus.Emit(ctx, events.RoundResolvedEvent{
			PlayerDie:    round.PlayerDie,
			PlayerRoll:   round.PlayerRoll,
			ComputerDie:  round.ComputerDie,
			ComputerRoll: round.ComputerRoll,
			Outcome:      round.Outcome,
		})
	}
	return round
}

func (s *gameService) PlayRound(ctx context.Context, playerDie int) (*models.RoundResult, error) {
	computerDie, err := s.ChooseComputerDie(ctx, playerDie)
	if err != nil {
		return nil, err
	}

	playerRoll, err := s.Roll(ctx, playerDie)
	if err != nil {
		return nil, err
	}
	computerRoll, err := s.Roll(ctx, computerDie)
	if err != nil {
		return nil, err
	}

	return s.Resolve(ctx, &models.RoundResult{
		PlayerDie:    playerDie,
		PlayerRoll:   playerRoll,
		ComputerDie:  computerDie,
		ComputerRoll: computerRoll,
	}), nil
}
