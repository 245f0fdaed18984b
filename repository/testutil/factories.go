package testutil

import (
	"time"

	"nontransitive/models"

	"github.com/google/uuid"
)

// CreateTestProof creates an unrevealed proof with default values
func CreateTestProof(purpose string, rangeEnd int) *models.FairnessProof {
	return &models.FairnessProof{
		RoundID:     uuid.New(),
		Purpose:     purpose,
		RangeEnd:    rangeEnd,
		HMAC:        "bde2fbc47a0de7fef9718aa13a78b9be361366deac088bcb105d01eff9c9c5d5",
		CommittedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// RevealTestProof fills in the reveal fields of a proof
func RevealTestProof(proof *models.FairnessProof, computer, user int) *models.FairnessProof {
	result := (computer + user) % proof.RangeEnd
	revealedAt := proof.CommittedAt.Add(time.Second)
	proof.Key = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	proof.ComputerNumber = &computer
	proof.UserNumber = &user
	proof.Result = &result
	proof.RevealedAt = &revealedAt
	return proof
}
