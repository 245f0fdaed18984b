package dice

// Outcome is the result of comparing two rolls.
type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomePlayerWins
	OutcomeComputerWins
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerWins:
		return "player_wins"
	case OutcomeComputerWins:
		return "computer_wins"
	default:
		return "tie"
	}
}

// Decide compares the player's roll against the computer's.
func Decide(playerRoll, computerRoll int) Outcome {
	switch {
	case playerRoll > computerRoll:
		return OutcomePlayerWins
	case computerRoll > playerRoll:
		return OutcomeComputerWins
	default:
		return OutcomeTie
	}
}
