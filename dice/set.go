package dice

// MinDice is the smallest set for which non-transitivity is possible.
const MinDice = 3

// Set is an immutable, validated collection of dice.
type Set struct {
	dice []Die
}

// NewSet builds a Set from already-parsed face lists.
func NewSet(faces [][]int) (Set, error) {
	if len(faces) < MinDice {
		return Set{}, &ValidationError{Die: -1, Err: ErrTooFewDice}
	}

	dice := make([]Die, len(faces))
	for i, values := range faces {
		d, err := NewDie(values)
		if err != nil {
			return Set{}, &ValidationError{Die: i, Err: err}
		}
		dice[i] = d
	}
	return Set{dice: dice}, nil
}

// ParseSet parses one comma-separated argument per die.
func ParseSet(args []string) (Set, error) {
	if len(args) < MinDice {
		return Set{}, &ValidationError{Die: -1, Err: ErrTooFewDice}
	}

	faces := make([][]int, len(args))
	for i, arg := range args {
		values, err := ParseFaces(arg)
		if err != nil {
			return Set{}, &ValidationError{Die: i, Input: arg, Err: err}
		}
		faces[i] = values
	}
	return NewSet(faces)
}

// Len returns the number of dice.
func (s Set) Len() int {
	return len(s.dice)
}

// Die returns the die at index i.
func (s Set) Die(i int) Die {
	return s.dice[i]
}

// Dice returns a copy of the dice slice. The dice themselves are immutable.
func (s Set) Dice() []Die {
	out := make([]Die, len(s.dice))
	copy(out, s.dice)
	return out
}

// Valid reports whether i indexes a die in the set.
func (s Set) Valid(i int) bool {
	return i >= 0 && i < len(s.dice)
}

// MaxFaces returns the largest face count in the set.
func (s Set) MaxFaces() int {
	most := 0
	for _, d := range s.dice {
		most = max(most, d.Len())
	}
	return most
}

// Reversed returns the set with dice in reverse order.
func (s Set) Reversed() Set {
	out := make([]Die, len(s.dice))
	for i, d := range s.dice {
		out[len(s.dice)-1-i] = d
	}
	return Set{dice: out}
}

// Identity returns a comparable handle shared by every copy of the set.
// Sets built separately never share one, even with equal faces.
func (s Set) Identity() *Die {
	if len(s.dice) == 0 {
		return nil
	}
	return &s.dice[0]
}
