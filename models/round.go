package models

import "nontransitive/dice"

// RoundResult is one resolved comparison of two dice rolls.
type RoundResult struct {
	PlayerDie    int
	PlayerRoll   int
	ComputerDie  int
	ComputerRoll int
	Outcome      dice.Outcome
}

// ComputerStrategy selects how the computer picks its die.
type ComputerStrategy string

const (
	// StrategyRandom picks uniformly among all dice.
	StrategyRandom ComputerStrategy = "random"
	// StrategyCounter picks the best response to the player's die.
	StrategyCounter ComputerStrategy = "counter"
)

// Valid reports whether s is a known strategy.
func (s ComputerStrategy) Valid() bool {
	return s == StrategyRandom || s == StrategyCounter
}
