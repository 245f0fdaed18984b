package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"nontransitive/events"
	"nontransitive/fairness"
	"nontransitive/models"
	"nontransitive/random"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type pendingRound struct {
	round *fairness.Round
	proof models.FairnessProof

	// set once the round is revealed but not yet recorded
	result *fairness.Result
}

type fairnessService struct {
	uowFactory UnitOfWorkFactory
	source     random.Source
	now        func() time.Time

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingRound
}

// NewFairnessService creates a new fairness service
func NewFairnessService(uowFactory UnitOfWorkFactory, source random.Source) FairnessService {
	return &fairnessService{
		uowFactory: uowFactory,
		source:     source,
		now:        time.Now,
		pending:    make(map[uuid.UUID]*pendingRound),
	}
}

func (s *fairnessService) Commit(ctx context.Context, purpose string, rangeEnd int) (*models.FairnessProof, error) {
	round := fairness.NewRound()
	commitment, err := round.Commit(s.source, rangeEnd)
	if err != nil {
		return nil, err
	}

	proof := models.FairnessProof{
		RoundID:     uuid.New(),
		Purpose:     purpose,
		RangeEnd:    commitment.RangeEnd,
		HMAC:        commitment.HMAC,
		CommittedAt: s.now().UTC(),
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	record := proof
	if err := uow.ProofRepository().Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to record commitment: %w", err)
	}

	uow.EventBus().Publish(events.CommitmentPublishedEvent{
		RoundID:  proof.RoundID,
		Purpose:  proof.Purpose,
		RangeEnd: proof.RangeEnd,
		HMAC:     proof.HMAC,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	s.pending[proof.RoundID] = &pendingRound{round: round, proof: proof}
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"roundID":  proof.RoundID,
		"purpose":  purpose,
		"rangeEnd": rangeEnd,
	}).Debug("Published fairness commitment")

	return &proof, nil
}

func (s *fairnessService) Reveal(ctx context.Context, roundID uuid.UUID, userNumber int) (*models.FairnessProof, error) {
	// The round stays pending until the ledger commits so a failed write can
	// be retried with the same number.
	s.mu.Lock()
	p, ok := s.pending[roundID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRoundNotFound
	}
	if p.result == nil {
		res, err := p.round.Reveal(userNumber)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		p.result = &res
	} else if p.result.UserNumber != userNumber {
		s.mu.Unlock()
		return nil, ErrUserNumberLocked
	}
	result := *p.result
	s.mu.Unlock()

	revealedAt := s.now().UTC()
	proof := p.proof
	proof.Key = result.KeyHex()
	proof.ComputerNumber = intPtr(result.ComputerNumber)
	proof.UserNumber = intPtr(result.UserNumber)
	proof.Result = intPtr(result.Value)
	proof.RevealedAt = &revealedAt

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.ProofRepository().MarkRevealed(ctx, &proof); err != nil {
		return nil, fmt.Errorf("failed to record reveal: %w", err)
	}

	uow.EventBus().Publish(events.CommitmentRevealedEvent{
		RoundID:        proof.RoundID,
		Purpose:        proof.Purpose,
		RangeEnd:       proof.RangeEnd,
		HMAC:           proof.HMAC,
		Key:            proof.Key,
		ComputerNumber: result.ComputerNumber,
		UserNumber:     result.UserNumber,
		Result:         result.Value,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	delete(s.pending, roundID)
	s.mu.Unlock()

	return &proof, nil
}

func (s *fairnessService) Proof(ctx context.Context, roundID uuid.UUID) (*models.FairnessProof, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	proof, err := uow.ProofRepository().GetByRoundID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get proof %s: %w", roundID, err)
	}
	if proof == nil {
		return nil, ErrRoundNotFound
	}
	return proof, nil
}

func (s *fairnessService) Recent(ctx context.Context, limit int) ([]*models.FairnessProof, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	proofs, err := uow.ProofRepository().ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	return proofs, nil
}

func (s *fairnessService) Verify(ctx context.Context, roundID uuid.UUID) (bool, error) {
	proof, err := s.Proof(ctx, roundID)
	if err != nil {
		return false, err
	}
	if !proof.Revealed() {
		return false, ErrNotRevealed
	}
	return VerifyProof(proof), nil
}

// VerifyProof re-computes the HMAC and combined result of a revealed proof.
func VerifyProof(proof *models.FairnessProof) bool {
	if proof == nil || proof.ComputerNumber == nil || proof.UserNumber == nil || proof.Result == nil {
		return false
	}
	key, err := hex.DecodeString(proof.Key)
	if err != nil {
		return false
	}

	result := fairness.Result{
		RangeEnd:       proof.RangeEnd,
		HMAC:           proof.HMAC,
		Key:            key,
		ComputerNumber: *proof.ComputerNumber,
		UserNumber:     *proof.UserNumber,
		Value:          *proof.Result,
	}
	return result.Verify()
}

// IsUserInputError reports whether err came from bad user input that the
// caller may re-prompt for.
func IsUserInputError(err error) bool {
	return errors.Is(err, fairness.ErrInvalidUserNumber)
}

func intPtr(v int) *int {
	return &v
}
