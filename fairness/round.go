// Package fairness implements the commit-reveal draw that lets a player
// check the computer fixed its number before seeing theirs.
//
// A Round moves Idle -> Committed -> Revealed exactly once:
//
//	round := fairness.NewRound()
//	c, _ := round.Commit(src, 6)   // publish c.HMAC
//	res, _ := round.Reveal(4)      // publish res.Key, res.ComputerNumber
//	ok := res.Verify()
package fairness

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nontransitive/random"
)

// KeySize is the HMAC key length in bytes (256 bits).
const KeySize = 32

// State is where a Round is in its Idle -> Committed -> Revealed lifecycle.
type State int

const (
	StateIdle State = iota
	StateCommitted
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateCommitted:
		return "committed"
	case StateRevealed:
		return "revealed"
	default:
		return "idle"
	}
}

// Commitment is what the computer publishes before the user picks a number.
type Commitment struct {
	RangeEnd int
	HMAC     string
}

// Result is the revealed outcome of a round with everything needed to
// re-check the commitment.
type Result struct {
	RangeEnd       int
	HMAC           string
	Key            []byte
	ComputerNumber int
	UserNumber     int
	Value          int
}

// KeyHex returns the revealed key as lowercase hex.
func (r Result) KeyHex() string {
	return hex.EncodeToString(r.Key)
}

// Verify re-computes the HMAC and the combined value.
func (r Result) Verify() bool {
	if r.RangeEnd <= 0 {
		return false
	}
	return Verify(r.HMAC, r.Key, r.ComputerNumber) &&
		r.Value == Combine(r.UserNumber, r.ComputerNumber, r.RangeEnd)
}

// Round is a single-use commit-reveal exchange. It is not safe for
// concurrent use.
type Round struct {
	state          State
	rangeEnd       int
	key            []byte
	computerNumber int
	hmac           string
}

// NewRound returns a round in the idle state.
func NewRound() *Round {
	return &Round{}
}

// State returns the round's current state.
func (r *Round) State() State {
	return r.state
}

// RangeEnd returns the exclusive upper bound fixed at commit time.
func (r *Round) RangeEnd() int {
	return r.rangeEnd
}

// Commit draws the computer's number and key from src and returns the
// public commitment. The key and number stay hidden until Reveal.
func (r *Round) Commit(src random.Source, rangeEnd int) (Commitment, error) {
	if r.state != StateIdle {
		return Commitment{}, &ProtocolError{Op: "commit", Err: ErrRoundState}
	}
	if rangeEnd <= 0 {
		return Commitment{}, &ProtocolError{Op: "commit", Err: ErrInvalidRange}
	}

	number, err := src.IntN(rangeEnd)
	if err != nil {
		return Commitment{}, &ProtocolError{Op: "commit", Err: fmt.Errorf("draw computer number: %w", err)}
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(src, key); err != nil {
		return Commitment{}, &ProtocolError{Op: "commit", Err: fmt.Errorf("generate key: %w", err)}
	}

	r.rangeEnd = rangeEnd
	r.computerNumber = number
	r.key = key
	r.hmac = Sign(key, number)
	r.state = StateCommitted

	return Commitment{RangeEnd: rangeEnd, HMAC: r.hmac}, nil
}

// Reveal combines userNumber with the committed number and discloses the
// key. An out-of-range userNumber leaves the round committed.
func (r *Round) Reveal(userNumber int) (Result, error) {
	if r.state != StateCommitted {
		return Result{}, &ProtocolError{Op: "reveal", Err: ErrRoundState}
	}
	if userNumber < 0 || userNumber >= r.rangeEnd {
		return Result{}, &ProtocolError{Op: "reveal", Err: ErrInvalidUserNumber}
	}

	res := Result{
		RangeEnd:       r.rangeEnd,
		HMAC:           r.hmac,
		Key:            r.key,
		ComputerNumber: r.computerNumber,
		UserNumber:     userNumber,
		Value:          Combine(userNumber, r.computerNumber, r.rangeEnd),
	}

	r.key = nil
	r.computerNumber = 0
	r.state = StateRevealed

	return res, nil
}

// ParseUserNumber parses the user's contribution and checks it against
// [0, rangeEnd).
func ParseUserNumber(text string, rangeEnd int) (int, error) {
	if rangeEnd <= 0 {
		return 0, &ProtocolError{Op: "parse", Err: ErrInvalidRange}
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 || n >= rangeEnd {
		return 0, &ProtocolError{Op: "parse", Err: ErrInvalidUserNumber}
	}
	return n, nil
}
