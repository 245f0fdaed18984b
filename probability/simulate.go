package probability

import (
	"fmt"

	"nontransitive/dice"
	"nontransitive/random"
)

// Simulate estimates the matrix by rolling every unordered pair of dice
// trials times. The result uses trials as the denominator of each entry.
func Simulate(set dice.Set, src random.Source, trials int) (Matrix, error) {
	if trials <= 0 {
		return Matrix{}, fmt.Errorf("trials must be positive, got %d", trials)
	}

	k := set.Len()
	m := newMatrix(k)

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			winsI, winsJ := 0, 0
			for n := 0; n < trials; n++ {
				a, err := set.Die(i).Roll(src)
				if err != nil {
					return Matrix{}, err
				}
				b, err := set.Die(j).Roll(src)
				if err != nil {
					return Matrix{}, err
				}
				switch dice.Decide(a, b) {
				case dice.OutcomePlayerWins:
					winsI++
				case dice.OutcomeComputerWins:
					winsJ++
				}
			}
			m.wins[i][j], m.wins[j][i] = winsI, winsJ
			m.totals[i][j], m.totals[j][i] = trials, trials
		}
	}

	return m, nil
}

// ChiSquared returns the chi-squared statistic of observed bucket counts
// against a uniform expectation.
func ChiSquared(observed []int) float64 {
	if len(observed) == 0 {
		return 0
	}
	total := 0
	for _, c := range observed {
		total += c
	}
	expected := float64(total) / float64(len(observed))
	if expected == 0 {
		return 0
	}

	chi := 0.0
	for _, c := range observed {
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

// MaxDeviation returns the largest absolute difference between two
// matrices of the same size.
func MaxDeviation(a, b Matrix) float64 {
	worst := 0.0
	for i := 0; i < a.size; i++ {
		for j := 0; j < a.size; j++ {
			d := a.P(i, j) - b.P(i, j)
			if d < 0 {
				d = -d
			}
			worst = max(worst, d)
		}
	}
	return worst
}
