package service

import (
	"context"

	"nontransitive/events"
	"nontransitive/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProofRepository is a mock implementation of ProofRepository
type MockProofRepository struct {
	mock.Mock
}

func (m *MockProofRepository) Create(ctx context.Context, proof *models.FairnessProof) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

func (m *MockProofRepository) MarkRevealed(ctx context.Context, proof *models.FairnessProof) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

func (m *MockProofRepository) GetByRoundID(ctx context.Context, roundID uuid.UUID) (*models.FairnessProof, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FairnessProof), args.Error(1)
}

func (m *MockProofRepository) ListRecent(ctx context.Context, limit int) ([]*models.FairnessProof, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FairnessProof), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	proofRepo ProofRepository
	publisher EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(proofRepo ProofRepository, publisher EventPublisher) {
	m.proofRepo = proofRepo
	m.publisher = publisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ProofRepository() ProofRepository {
	return m.proofRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
