package probability

import (
	"testing"

	"nontransitive/dice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func efronSet(t *testing.T) dice.Set {
	t.Helper()
	set, err := dice.NewSet([][]int{
		{2, 2, 4, 4, 9, 9},
		{1, 1, 6, 6, 8, 8},
		{3, 3, 5, 5, 7, 7},
	})
	require.NoError(t, err)
	return set
}

func TestCompute_EfronSet(t *testing.T) {
	m := Compute(efronSet(t))

	assert.Equal(t, 3, m.Size())
	assert.InDelta(t, 0.556, m.P(0, 1), 0.01)

	wins, total := m.Fraction(0, 1)
	assert.Equal(t, 20, wins)
	assert.Equal(t, 36, total)

	// Each die beats the next one in the cycle with probability 5/9.
	assert.InDelta(t, 5.0/9.0, m.P(1, 2), 1e-12)
	assert.InDelta(t, 5.0/9.0, m.P(2, 0), 1e-12)
	assert.InDelta(t, 4.0/9.0, m.P(1, 0), 1e-12)

	for i := 0; i < 3; i++ {
		assert.Zero(t, m.P(i, i))
		assert.Zero(t, m.Tie(i, i))
	}
}

func TestCompute_Ties(t *testing.T) {
	set, err := dice.NewSet([][]int{{1, 2}, {2, 3}, {5}})
	require.NoError(t, err)
	m := Compute(set)

	// {1,2} vs {2,3}: one tie (2,2), zero wins for die 0, three for die 1.
	assert.Equal(t, 0.0, m.P(0, 1))
	assert.Equal(t, 0.75, m.P(1, 0))
	assert.Equal(t, 0.25, m.Tie(0, 1))
	assert.Equal(t, 1.0, m.P(2, 0))
}

func TestMatrix_Rows(t *testing.T) {
	m := Compute(efronSet(t))
	rows := m.Rows()

	require.Len(t, rows, 3)
	for i, row := range rows {
		require.Len(t, row, 3)
		for j, p := range row {
			assert.Equal(t, m.P(i, j), p)
		}
	}
}

func TestBestResponse(t *testing.T) {
	m := Compute(efronSet(t))

	die, p := BestResponse(m, 0)
	assert.Equal(t, 2, die)
	assert.InDelta(t, 5.0/9.0, p, 1e-12)

	die, _ = BestResponse(m, 1)
	assert.Equal(t, 0, die)

	die, _ = BestResponse(m, 2)
	assert.Equal(t, 1, die)
}

func diceSetGen() *rapid.Generator[[][]int] {
	face := rapid.IntRange(-6, 12)
	return rapid.SliceOfN(rapid.SliceOfN(face, 1, 8), 3, 6)
}

func hasTie(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func TestCompute_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		faces := diceSetGen().Draw(t, "faces")
		set, err := dice.NewSet(faces)
		if err != nil {
			t.Fatalf("NewSet: %v", err)
		}
		m := Compute(set)
		k := set.Len()

		for i := 0; i < k; i++ {
			if m.P(i, i) != 0 {
				t.Fatalf("diagonal (%d,%d) = %v, want 0", i, i, m.P(i, i))
			}
			for j := 0; j < k; j++ {
				if i == j {
					continue
				}
				p := m.P(i, j)
				if p < 0 || p > 1 {
					t.Fatalf("P(%d,%d) = %v out of [0,1]", i, j, p)
				}

				winsIJ, total := m.Fraction(i, j)
				winsJI, _ := m.Fraction(j, i)
				if total != len(faces[i])*len(faces[j]) {
					t.Fatalf("denominator (%d,%d) = %d", i, j, total)
				}
				if winsIJ+winsJI > total {
					t.Fatalf("wins exceed total for (%d,%d)", i, j)
				}
				noTies := winsIJ+winsJI == total
				if noTies == hasTie(faces[i], faces[j]) {
					t.Fatalf("sum==1 is %v but tie presence is %v for (%d,%d)", noTies, hasTie(faces[i], faces[j]), i, j)
				}

				sum := m.P(i, j) + m.P(j, i) + m.Tie(i, j)
				if sum < 1-1e-9 || sum > 1+1e-9 {
					t.Fatalf("P+P'+tie = %v for (%d,%d)", sum, i, j)
				}
			}
		}
	})
}

func TestCompute_SymmetryUnderReversal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		faces := diceSetGen().Draw(t, "faces")
		set, err := dice.NewSet(faces)
		if err != nil {
			t.Fatalf("NewSet: %v", err)
		}
		m := Compute(set)
		rev := Compute(set.Reversed())
		k := set.Len()

		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				if m.P(i, j) != rev.P(k-1-i, k-1-j) {
					t.Fatalf("P(%d,%d)=%v but reversed P(%d,%d)=%v", i, j, m.P(i, j), k-1-i, k-1-j, rev.P(k-1-i, k-1-j))
				}
			}
		}
	})
}

func TestCache(t *testing.T) {
	cache := NewCache()
	set := efronSet(t)

	first := cache.Get(set)
	second := cache.Get(set)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	other := efronSet(t)
	cache.Get(other)
	assert.Equal(t, 2, cache.Len())

	assert.Equal(t, Compute(set), first)
}
