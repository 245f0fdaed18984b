package repository

import (
	"context"
	"testing"
	"time"

	"nontransitive/events"
	"nontransitive/models"
	"nontransitive/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	factory := NewMemoryUnitOfWorkFactory(store, events.NewBus())

	proof := testutil.CreateTestProof(models.PurposeDraw, 6)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ProofRepository().Create(ctx, proof))
	assert.Equal(t, 0, store.Len(), "writes stay staged until commit")
	require.NoError(t, uow.Rollback())
	assert.Equal(t, 0, store.Len())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ProofRepository().Create(ctx, proof))
	require.NoError(t, uow.Commit())
	require.NoError(t, uow.Rollback())
	assert.Equal(t, 1, store.Len())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	stored, err := uow.ProofRepository().GetByRoundID(ctx, proof.RoundID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, proof.HMAC, stored.HMAC)
	require.NoError(t, uow.Rollback())
}

func TestMemoryUnitOfWork_RevealOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	factory := NewMemoryUnitOfWorkFactory(store, events.NewBus())

	proof := testutil.CreateTestProof(models.PurposePlayer, 6)
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ProofRepository().Create(ctx, proof))
	require.NoError(t, uow.Commit())

	testutil.RevealTestProof(proof, 3, 4)
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ProofRepository().MarkRevealed(ctx, proof))
	require.NoError(t, uow.Commit())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ProofRepository().MarkRevealed(ctx, proof))
	assert.Error(t, uow.Commit())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	stored, err := uow.ProofRepository().GetByRoundID(ctx, proof.RoundID)
	require.NoError(t, err)
	require.True(t, stored.Revealed())
	assert.Equal(t, 1, *stored.Result)

	// Mutating the returned proof must not touch the store
	*stored.Result = 5
	again, err := uow.ProofRepository().GetByRoundID(ctx, proof.RoundID)
	require.NoError(t, err)
	assert.Equal(t, 1, *again.Result)
}

func TestMemoryProofRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	factory := NewMemoryUnitOfWorkFactory(store, events.NewBus())

	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	var proofs []*models.FairnessProof
	for i := 0; i < 4; i++ {
		p := testutil.CreateTestProof(models.PurposeDraw, 6)
		p.CommittedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, uow.ProofRepository().Create(ctx, p))
		proofs = append(proofs, p)
	}
	require.NoError(t, uow.Commit())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	recent, err := uow.ProofRepository().ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, proofs[3].RoundID, recent[0].RoundID)
	assert.Equal(t, proofs[1].RoundID, recent[2].RoundID)

	all, err := uow.ProofRepository().ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryUnitOfWork_EventsFlushOnCommit(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeCommitmentPublished, func(ctx context.Context, e events.Event) {
		received <- e
	})

	factory := NewMemoryUnitOfWorkFactory(NewMemoryStore(), bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.CommitmentPublishedEvent{Purpose: models.PurposeDraw})
	require.NoError(t, uow.Rollback())

	select {
	case <-received:
		t.Fatal("rolled back event was emitted")
	case <-time.After(50 * time.Millisecond):
	}

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.CommitmentPublishedEvent{Purpose: models.PurposeDraw})
	require.NoError(t, uow.Commit())

	select {
	case e := <-received:
		assert.Equal(t, events.EventTypeCommitmentPublished, e.Type())
	case <-time.After(time.Second):
		t.Fatal("committed event was not emitted")
	}
}
