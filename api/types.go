package api

import (
	"nontransitive/models"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

const (
	ErrTypeValidation = "validation_error"
	ErrTypeNotFound   = "not_found"
	ErrTypeInternal   = "internal_error"
)

// HealthResponse reports liveness and uptime
type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// DieResponse describes one configured die
type DieResponse struct {
	Index int   `json:"index"`
	Faces []int `json:"faces"`
}

// DiceResponse lists the configured dice in order
type DiceResponse struct {
	Dice []DieResponse `json:"dice"`
}

// Fraction is the exact count behind a probability
type Fraction struct {
	Wins  int `json:"wins"`
	Total int `json:"total"`
}

// ProbabilitiesResponse holds the strict win matrix. Rows[i][j] is the
// chance that die i beats die j.
type ProbabilitiesResponse struct {
	Size      int          `json:"size"`
	Rows      [][]float64  `json:"rows"`
	Fractions [][]Fraction `json:"fractions"`
}

// ProofResponse is a ledger record plus its verification status
type ProofResponse struct {
	*models.FairnessProof
	Verified *bool `json:"verified,omitempty"`
}

// ProofsResponse lists recent proofs, newest first
type ProofsResponse struct {
	Proofs []ProofResponse `json:"proofs"`
}

// VerifyRequest carries what a third party needs to re-check a commitment
type VerifyRequest struct {
	HMAC           string `json:"hmac"`
	Key            string `json:"key"`
	ComputerNumber *int   `json:"computer_number"`
}

// VerifyResponse reports whether the HMAC matches the revealed key and number
type VerifyResponse struct {
	Valid bool `json:"valid"`
}
