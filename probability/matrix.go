// Package probability computes exact pairwise win probabilities between dice.
package probability

import (
	"nontransitive/dice"
)

// Matrix holds strict-win counts for every ordered pair of dice.
//
// P(i, j) is the probability that a roll of die i is strictly greater than a
// roll of die j. Ties count toward the denominator only, so
// P(i, j) + P(j, i) + Tie(i, j) == 1. The diagonal is always 0.
type Matrix struct {
	size   int
	wins   [][]int
	totals [][]int
}

func newMatrix(size int) Matrix {
	m := Matrix{
		size:   size,
		wins:   make([][]int, size),
		totals: make([][]int, size),
	}
	for i := range m.wins {
		m.wins[i] = make([]int, size)
		m.totals[i] = make([]int, size)
	}
	return m
}

// Compute builds the matrix over the full cross product of faces for each
// unordered pair. Cost is O(n*m) per pair and O(k^2*n*m) overall.
func Compute(set dice.Set) Matrix {
	k := set.Len()
	m := newMatrix(k)

	for i := 0; i < k; i++ {
		facesI := set.Die(i).Faces()
		for j := i + 1; j < k; j++ {
			facesJ := set.Die(j).Faces()

			winsI, winsJ := 0, 0
			for _, a := range facesI {
				for _, b := range facesJ {
					if a > b {
						winsI++
					} else if b > a {
						winsJ++
					}
				}
			}

			total := len(facesI) * len(facesJ)
			m.wins[i][j], m.wins[j][i] = winsI, winsJ
			m.totals[i][j], m.totals[j][i] = total, total
		}
	}

	return m
}

// Size returns the number of dice the matrix covers.
func (m Matrix) Size() int {
	return m.size
}

// P returns the strict win probability of die i over die j.
func (m Matrix) P(i, j int) float64 {
	if i == j || m.totals[i][j] == 0 {
		return 0
	}
	return float64(m.wins[i][j]) / float64(m.totals[i][j])
}

// Tie returns the probability that dice i and j roll the same value.
func (m Matrix) Tie(i, j int) float64 {
	if i == j || m.totals[i][j] == 0 {
		return 0
	}
	ties := m.totals[i][j] - m.wins[i][j] - m.wins[j][i]
	return float64(ties) / float64(m.totals[i][j])
}

// Fraction returns the exact win count and comparison count behind P(i, j).
func (m Matrix) Fraction(i, j int) (wins, total int) {
	return m.wins[i][j], m.totals[i][j]
}

// Rows returns the matrix as float64 rows in dice order.
func (m Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.size)
	for i := range rows {
		rows[i] = make([]float64, m.size)
		for j := range rows[i] {
			rows[i][j] = m.P(i, j)
		}
	}
	return rows
}

// BestResponse returns the die with the highest strict win probability
// against opponent. Ties go to the lowest index.
func BestResponse(m Matrix, opponent int) (int, float64) {
	best, bestP := -1, -1.0
	for i := 0; i < m.size; i++ {
		if i == opponent {
			continue
		}
		if p := m.P(i, opponent); p > bestP {
			best, bestP = i, p
		}
	}
	return best, bestP
}
