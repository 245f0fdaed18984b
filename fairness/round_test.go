package fairness

import (
	"crypto/hmac"
	"encoding/hex"
	"math"
	"testing"

	"nontransitive/probability"
	"nontransitive/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

// fixedSource returns a chosen number and fills reads with a chosen key.
type fixedSource struct {
	number int
	key    []byte
}

func (s fixedSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, random.ErrInvalidBound
	}
	return s.number % n, nil
}

func (s fixedSource) Read(p []byte) (int, error) {
	return copy(p, s.key), nil
}

func sequentialKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestRound_ConcreteScenario(t *testing.T) {
	key := sequentialKey()
	round := NewRound()

	c, err := round.Commit(fixedSource{number: 3, key: key}, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, c.RangeEnd)
	assert.Equal(t, StateCommitted, round.State())

	res, err := round.Reveal(4)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Value)
	assert.Equal(t, 3, res.ComputerNumber)
	assert.Equal(t, 4, res.UserNumber)
	assert.Equal(t, key, res.Key)
	assert.Equal(t, StateRevealed, round.State())

	h := hmac.New(sha3.New256, key)
	h.Write([]byte("3"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), c.HMAC)
	assert.True(t, res.Verify())
}

func TestRound_LargestRange(t *testing.T) {
	round := NewRound()

	_, err := round.Commit(fixedSource{number: math.MaxInt - 1, key: sequentialKey()}, math.MaxInt)
	require.NoError(t, err)

	res, err := round.Reveal(math.MaxInt - 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt-1, res.ComputerNumber)
	assert.Equal(t, math.MaxInt-2, res.Value)
	assert.GreaterOrEqual(t, res.Value, 0)
	assert.True(t, res.Verify())

	forged := res
	forged.Value = -4
	assert.False(t, forged.Verify())
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name                string
		user, computer, end int
		want                int
	}{
		{"no wrap", 1, 2, 6, 3},
		{"wraps", 4, 3, 6, 1},
		{"wraps to zero", 3, 3, 6, 0},
		{"range of one", 0, 0, 1, 0},
		{"max range no wrap", 1, math.MaxInt - 2, math.MaxInt, math.MaxInt - 1},
		{"max range wrap", math.MaxInt - 1, math.MaxInt - 1, math.MaxInt, math.MaxInt - 2},
		{"max range exact wrap", 1, math.MaxInt - 1, math.MaxInt, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(tt.user, tt.computer, tt.end)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.Less(t, got, tt.end)
		})
	}
}

func TestSign_KnownAnswer(t *testing.T) {
	assert.Equal(t,
		"bde2fbc47a0de7fef9718aa13a78b9be361366deac088bcb105d01eff9c9c5d5",
		Sign(sequentialKey(), 3))
	assert.Equal(t,
		"ae648360ba469d76e3ed95471f32fda85ef6c1343ad55f33c008288809e5783f",
		Sign([]byte("key"), 42))
}

func TestRound_Binding(t *testing.T) {
	src := random.NewSeededSource(11)

	for i := 0; i < 50; i++ {
		round := NewRound()
		c, err := round.Commit(src, 10)
		require.NoError(t, err)

		res, err := round.Reveal(i % 10)
		require.NoError(t, err)

		assert.Len(t, res.Key, KeySize)
		assert.Equal(t, c.HMAC, res.HMAC)
		assert.Equal(t, c.HMAC, Sign(res.Key, res.ComputerNumber))
		assert.True(t, Verify(c.HMAC, res.Key, res.ComputerNumber))
		assert.True(t, res.Verify())
	}
}

func TestVerify_Sensitivity(t *testing.T) {
	key := sequentialKey()
	digest := Sign(key, 3)

	for i := range key {
		mutated := append([]byte(nil), key...)
		mutated[i] ^= 0x01
		assert.False(t, Verify(digest, mutated, 3), "flipping key byte %d must change the digest", i)
	}

	assert.False(t, Verify(digest, key, 2))
	assert.False(t, Verify(digest, key, 4))
	assert.False(t, Verify(digest, key, 30))
	assert.False(t, Verify("not-hex", key, 3))
	assert.False(t, Verify(digest[:10], key, 3))
}

func TestResult_VerifyDetectsTampering(t *testing.T) {
	round := NewRound()
	_, err := round.Commit(random.NewSeededSource(5), 6)
	require.NoError(t, err)
	res, err := round.Reveal(2)
	require.NoError(t, err)
	require.True(t, res.Verify())

	tampered := res
	tampered.ComputerNumber = (res.ComputerNumber + 1) % 6
	assert.False(t, tampered.Verify())

	tampered = res
	tampered.Value = (res.Value + 1) % 6
	assert.False(t, tampered.Verify())

	tampered = res
	tampered.RangeEnd = 0
	assert.False(t, tampered.Verify())
}

func TestRound_FreshKeys(t *testing.T) {
	src := random.NewCryptoSource()

	a := NewRound()
	_, err := a.Commit(src, 2)
	require.NoError(t, err)
	resA, err := a.Reveal(0)
	require.NoError(t, err)

	b := NewRound()
	_, err = b.Commit(src, 2)
	require.NoError(t, err)
	resB, err := b.Reveal(0)
	require.NoError(t, err)

	assert.NotEqual(t, resA.KeyHex(), resB.KeyHex())
}

func TestRound_StateErrors(t *testing.T) {
	src := random.NewSeededSource(3)

	t.Run("reveal before commit", func(t *testing.T) {
		_, err := NewRound().Reveal(0)
		assert.ErrorIs(t, err, ErrRoundState)
	})

	t.Run("commit twice", func(t *testing.T) {
		round := NewRound()
		_, err := round.Commit(src, 6)
		require.NoError(t, err)
		_, err = round.Commit(src, 6)
		assert.ErrorIs(t, err, ErrRoundState)
	})

	t.Run("reveal twice", func(t *testing.T) {
		round := NewRound()
		_, err := round.Commit(src, 6)
		require.NoError(t, err)
		_, err = round.Reveal(1)
		require.NoError(t, err)
		_, err = round.Reveal(1)
		assert.ErrorIs(t, err, ErrRoundState)
	})

	t.Run("invalid range", func(t *testing.T) {
		for _, rangeEnd := range []int{0, -1} {
			round := NewRound()
			_, err := round.Commit(src, rangeEnd)
			assert.ErrorIs(t, err, ErrInvalidRange)
			assert.Equal(t, StateIdle, round.State())

			var perr *ProtocolError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "commit", perr.Op)
		}
	})

	t.Run("out of range user number keeps round committed", func(t *testing.T) {
		round := NewRound()
		_, err := round.Commit(src, 6)
		require.NoError(t, err)

		_, err = round.Reveal(6)
		assert.ErrorIs(t, err, ErrInvalidUserNumber)
		_, err = round.Reveal(-1)
		assert.ErrorIs(t, err, ErrInvalidUserNumber)
		assert.Equal(t, StateCommitted, round.State())

		res, err := round.Reveal(5)
		require.NoError(t, err)
		assert.True(t, res.Verify())
	})
}

func TestRound_ResultUniform(t *testing.T) {
	const (
		rangeEnd   = 6
		trials     = 12000
		userNumber = 4
		// chi-squared critical value for 5 degrees of freedom at p = 0.001
		critical = 20.52
	)
	src := random.NewSeededSource(77)
	buckets := make([]int, rangeEnd)

	for i := 0; i < trials; i++ {
		round := NewRound()
		_, err := round.Commit(src, rangeEnd)
		require.NoError(t, err)
		res, err := round.Reveal(userNumber)
		require.NoError(t, err)
		buckets[res.Value]++
	}

	assert.Less(t, probability.ChiSquared(buckets), critical)
}

func TestParseUserNumber(t *testing.T) {
	tests := []struct {
		input    string
		rangeEnd int
		want     int
		wantErr  error
	}{
		{"4", 6, 4, nil},
		{" 0 ", 6, 0, nil},
		{"5", 6, 5, nil},
		{"6", 6, 0, ErrInvalidUserNumber},
		{"-1", 6, 0, ErrInvalidUserNumber},
		{"abc", 6, 0, ErrInvalidUserNumber},
		{"2.5", 6, 0, ErrInvalidUserNumber},
		{"", 6, 0, ErrInvalidUserNumber},
		{"1", 0, 0, ErrInvalidRange},
	}

	for _, tt := range tests {
		got, err := ParseUserNumber(tt.input, tt.rangeEnd)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "committed", StateCommitted.String())
	assert.Equal(t, "revealed", StateRevealed.String())
}
