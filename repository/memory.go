package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nontransitive/events"
	"nontransitive/models"
	"nontransitive/service"

	"github.com/google/uuid"
)

// MemoryStore keeps fairness proofs in process memory. It is used when no
// DATABASE_URL is configured, so proofs live as long as the process.
type MemoryStore struct {
	mu     sync.RWMutex
	proofs map[uuid.UUID]models.FairnessProof
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{proofs: make(map[uuid.UUID]models.FairnessProof)}
}

// Len returns the number of stored proofs
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.proofs)
}

type memoryOp func(proofs map[uuid.UUID]models.FairnessProof) error

// apply runs all staged writes or none of them
func (s *MemoryStore) apply(ops []memoryOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[uuid.UUID]models.FairnessProof, len(s.proofs))
	for id, p := range s.proofs {
		staged[id] = p
	}
	for _, op := range ops {
		if err := op(staged); err != nil {
			return err
		}
	}
	s.proofs = staged
	return nil
}

// memoryProofRepository stages writes on its unit of work and reads
// committed state from the store
type memoryProofRepository struct {
	store *MemoryStore
	uow   *memoryUnitOfWork
}

func (r *memoryProofRepository) Create(ctx context.Context, proof *models.FairnessProof) error {
	record := cloneProof(*proof)
	r.uow.ops = append(r.uow.ops, func(proofs map[uuid.UUID]models.FairnessProof) error {
		if _, exists := proofs[record.RoundID]; exists {
			return fmt.Errorf("proof %s already exists", record.RoundID)
		}
		proofs[record.RoundID] = record
		return nil
	})
	return nil
}

func (r *memoryProofRepository) MarkRevealed(ctx context.Context, proof *models.FairnessProof) error {
	record := cloneProof(*proof)
	r.uow.ops = append(r.uow.ops, func(proofs map[uuid.UUID]models.FairnessProof) error {
		existing, ok := proofs[record.RoundID]
		if !ok || existing.Revealed() {
			return fmt.Errorf("proof %s not found or already revealed", record.RoundID)
		}
		existing.Key = record.Key
		existing.ComputerNumber = record.ComputerNumber
		existing.UserNumber = record.UserNumber
		existing.Result = record.Result
		existing.RevealedAt = record.RevealedAt
		proofs[record.RoundID] = existing
		return nil
	})
	return nil
}

func (r *memoryProofRepository) GetByRoundID(ctx context.Context, roundID uuid.UUID) (*models.FairnessProof, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	proof, ok := r.store.proofs[roundID]
	if !ok {
		return nil, nil
	}
	clone := cloneProof(proof)
	return &clone, nil
}

func (r *memoryProofRepository) ListRecent(ctx context.Context, limit int) ([]*models.FairnessProof, error) {
	r.store.mu.RLock()
	proofs := make([]*models.FairnessProof, 0, len(r.store.proofs))
	for _, p := range r.store.proofs {
		clone := cloneProof(p)
		proofs = append(proofs, &clone)
	}
	r.store.mu.RUnlock()

	sort.Slice(proofs, func(i, j int) bool {
		return proofs[i].CommittedAt.After(proofs[j].CommittedAt)
	})
	if limit < len(proofs) {
		proofs = proofs[:limit]
	}
	return proofs, nil
}

type memoryUnitOfWork struct {
	store            *MemoryStore
	started          bool
	ops              []memoryOp
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	proofRepo        *memoryProofRepository
}

type memoryUnitOfWorkFactory struct {
	store    *MemoryStore
	eventBus *events.Bus
}

// NewMemoryUnitOfWorkFactory creates a UnitOfWork factory over an in-memory store
func NewMemoryUnitOfWorkFactory(store *MemoryStore, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &memoryUnitOfWorkFactory{store: store, eventBus: eventBus}
}

func (f *memoryUnitOfWorkFactory) Create() service.UnitOfWork {
	return &memoryUnitOfWork{
		store:            f.store,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if u.started {
		return fmt.Errorf("transaction already started")
	}
	u.started = true
	u.ctx = ctx
	u.proofRepo = &memoryProofRepository{store: u.store, uow: u}
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.started {
		return fmt.Errorf("no transaction to commit")
	}
	if err := u.store.apply(u.ops); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.started = false
	u.ops = nil

	return u.transactionalBus.Flush(u.ctx)
}

func (u *memoryUnitOfWork) Rollback() error {
	if !u.started {
		return nil
	}
	u.started = false
	u.ops = nil
	u.transactionalBus.Discard()
	return nil
}

func (u *memoryUnitOfWork) ProofRepository() service.ProofRepository {
	if u.proofRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.proofRepo
}

func (u *memoryUnitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

func cloneProof(p models.FairnessProof) models.FairnessProof {
	clone := p
	clone.ComputerNumber = cloneInt(p.ComputerNumber)
	clone.UserNumber = cloneInt(p.UserNumber)
	clone.Result = cloneInt(p.Result)
	if p.RevealedAt != nil {
		t := *p.RevealedAt
		clone.RevealedAt = &t
	}
	return clone
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
