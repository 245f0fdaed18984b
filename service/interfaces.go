package service

import (
	"context"

	"nontransitive/dice"
	"nontransitive/events"
	"nontransitive/models"
	"nontransitive/probability"

	"github.com/google/uuid"
)

// ProofRepository defines the interface for fairness proof storage
type ProofRepository interface {
	// Create records a freshly published commitment
	Create(ctx context.Context, proof *models.FairnessProof) error

	// MarkRevealed stores the revealed key, numbers and result of a round
	MarkRevealed(ctx context.Context, proof *models.FairnessProof) error

	// GetByRoundID returns the proof for a round, or nil if it does not exist
	GetByRoundID(ctx context.Context, roundID uuid.UUID) (*models.FairnessProof, error)

	// ListRecent returns the most recently committed proofs, newest first
	ListRecent(ctx context.Context, limit int) ([]*models.FairnessProof, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional ledger operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	ProofRepository() ProofRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// GameService defines the interface for playing dice rounds
type GameService interface {
	// Dice returns the configured dice set
	Dice() dice.Set

	// Probabilities returns the pairwise strict win probabilities
	Probabilities() probability.Matrix

	// ChooseComputerDie picks the computer's die after the player chose theirs
	ChooseComputerDie(ctx context.Context, playerDie int) (int, error)

	// Roll rolls the die at the given index
	Roll(ctx context.Context, die int) (int, error)

	// Resolve decides the outcome of a round whose rolls are already known
	Resolve(ctx context.Context, round *models.RoundResult) *models.RoundResult

	// PlayRound chooses the computer's die, rolls both dice and resolves the round
	PlayRound(ctx context.Context, playerDie int) (*models.RoundResult, error)
}

// FairnessService defines the interface for commit-reveal draws
type FairnessService interface {
	// Commit starts a round and returns the published commitment
	Commit(ctx context.Context, purpose string, rangeEnd int) (*models.FairnessProof, error)

	// Reveal completes a pending round with the user's number
	Reveal(ctx context.Context, roundID uuid.UUID, userNumber int) (*models.FairnessProof, error)

	// Proof returns the ledger record of a round
	Proof(ctx context.Context, roundID uuid.UUID) (*models.FairnessProof, error)

	// Recent returns the latest proofs, newest first
	Recent(ctx context.Context, limit int) ([]*models.FairnessProof, error)

	// Verify re-checks a revealed round against its published HMAC
	Verify(ctx context.Context, roundID uuid.UUID) (bool, error)
}
