package repository

import (
	"context"
	"errors"
	"fmt"

	"nontransitive/database"
	"nontransitive/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable is satisfied by both *pgxpool.Pool and pgx.Tx
type queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const proofColumns = `round_id, purpose, range_end, hmac, key_hex, computer_number,
	user_number, result, committed_at, revealed_at`

// ProofRepository stores fairness proofs in Postgres
type ProofRepository struct {
	q queryable
}

// NewProofRepository creates a new proof repository on the pool
func NewProofRepository(db *database.DB) *ProofRepository {
	return &ProofRepository{q: db.Pool}
}

// newProofRepositoryWithTx creates a new proof repository with a transaction
func newProofRepositoryWithTx(tx queryable) *ProofRepository {
	return &ProofRepository{q: tx}
}

// Create records a published commitment
func (r *ProofRepository) Create(ctx context.Context, proof *models.FairnessProof) error {
	query := `
		INSERT INTO fairness_proofs (round_id, purpose, range_end, hmac, committed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING committed_at
	`

	err := r.q.QueryRow(ctx, query,
		proof.RoundID,
		proof.Purpose,
		proof.RangeEnd,
		proof.HMAC,
		proof.CommittedAt,
	).Scan(&proof.CommittedAt)
	if err != nil {
		return fmt.Errorf("failed to create proof %s: %w", proof.RoundID, err)
	}
	return nil
}

// MarkRevealed stores the revealed key and numbers. A proof can only be
// revealed once.
func (r *ProofRepository) MarkRevealed(ctx context.Context, proof *models.FairnessProof) error {
	query := `
		UPDATE fairness_proofs
		SET key_hex = $2, computer_number = $3, user_number = $4, result = $5, revealed_at = $6
		WHERE round_id = $1 AND revealed_at IS NULL
	`

	tag, err := r.q.Exec(ctx, query,
		proof.RoundID,
		proof.Key,
		proof.ComputerNumber,
		proof.UserNumber,
		proof.Result,
		proof.RevealedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to reveal proof %s: %w", proof.RoundID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("proof %s not found or already revealed", proof.RoundID)
	}
	return nil
}

// GetByRoundID returns the proof for a round, or nil if none exists
func (r *ProofRepository) GetByRoundID(ctx context.Context, roundID uuid.UUID) (*models.FairnessProof, error) {
	query := `SELECT ` + proofColumns + ` FROM fairness_proofs WHERE round_id = $1`

	proof, err := scanProof(r.q.QueryRow(ctx, query, roundID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof %s: %w", roundID, err)
	}
	return proof, nil
}

// ListRecent returns the latest proofs, newest first
func (r *ProofRepository) ListRecent(ctx context.Context, limit int) ([]*models.FairnessProof, error) {
	query := `SELECT ` + proofColumns + ` FROM fairness_proofs ORDER BY committed_at DESC LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	defer rows.Close()

	var proofs []*models.FairnessProof
	for rows.Next() {
		proof, err := scanProof(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proof: %w", err)
		}
		proofs = append(proofs, proof)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate proofs: %w", err)
	}
	return proofs, nil
}

func scanProof(row pgx.Row) (*models.FairnessProof, error) {
	var proof models.FairnessProof
	err := row.Scan(
		&proof.RoundID,
		&proof.Purpose,
		&proof.RangeEnd,
		&proof.HMAC,
		&proof.Key,
		&proof.ComputerNumber,
		&proof.UserNumber,
		&proof.Result,
		&proof.CommittedAt,
		&proof.RevealedAt,
	)
	if err != nil {
		return nil, err
	}
	return &proof, nil
}
