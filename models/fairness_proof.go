package models

import (
	"time"

	"github.com/google/uuid"
)

// FairnessProof is the ledger record of one commit-reveal draw.
// Key, UserNumber and Result stay empty until the round is revealed.
type FairnessProof struct {
	RoundID        uuid.UUID  `db:"round_id" json:"round_id"`
	Purpose        string     `db:"purpose" json:"purpose"`
	RangeEnd       int        `db:"range_end" json:"range_end"`
	HMAC           string     `db:"hmac" json:"hmac"`
	Key            string     `db:"key_hex" json:"key,omitempty"`
	ComputerNumber *int       `db:"computer_number" json:"computer_number,omitempty"`
	UserNumber     *int       `db:"user_number" json:"user_number,omitempty"`
	Result         *int       `db:"result" json:"result,omitempty"`
	CommittedAt    time.Time  `db:"committed_at" json:"committed_at"`
	RevealedAt     *time.Time `db:"revealed_at" json:"revealed_at,omitempty"`
}

// Revealed reports whether the key has been disclosed.
func (p *FairnessProof) Revealed() bool {
	return p.RevealedAt != nil
}

// Purposes of a fairness draw
const (
	PurposeDraw     = "draw"
	PurposePlayer   = "player_roll"
	PurposeComputer = "computer_roll"
)
