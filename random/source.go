// Package random provides the random-source handle threaded through dice
// rolls and fairness rounds.
//
// Production code uses NewCryptoSource. Tests use NewSeededSource so that
// rolls and commitments are reproducible without touching global state.
package random

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/rand/v2"
	"sync"
)

// ErrInvalidBound is returned when IntN is called with n <= 0.
var ErrInvalidBound = errors.New("random: bound must be positive")

// Source produces uniformly distributed integers and raw random bytes.
//
// IntN must draw from [0, n) without modulo bias.
type Source interface {
	io.Reader
	IntN(n int) (int, error)
}

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Read(p []byte) (int, error) {
	return crand.Read(p)
}

// IntN uses crypto/rand.Int, which rejection-samples to stay unbiased.
func (cryptoSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read crypto random: %w", err)
	}
	return int(v.Int64()), nil
}

// seededSource is a deterministic ChaCha8 stream. Not for production draws.
type seededSource struct {
	mu     sync.Mutex
	chacha *rand.ChaCha8
	rng    *rand.Rand
}

// NewSeededSource returns a deterministic Source for tests and simulations.
func NewSeededSource(seed uint64) Source {
	var key [32]byte
	for i := 0; i < 8; i++ {
		key[i] = byte(seed >> (8 * i))
	}
	chacha := rand.NewChaCha8(key)
	return &seededSource{chacha: chacha, rng: rand.New(chacha)}
}

func (s *seededSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chacha.Read(p)
}

func (s *seededSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n), nil
}
