package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/travel_settlement/internal/models"
	"github.com/SscSPs/travel_settlement/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReferenceRepository struct {
	BaseRepository
}

func newPgxReferenceRepository(pool *pgxpool.Pool) *PgxReferenceRepository {
	return &PgxReferenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReferenceStatusRepository = (*PgxReferenceRepository)(nil)

// SaveReferenceStatus inserts or replaces the status of a reference.
func (r *PgxReferenceRepository) SaveReferenceStatus(ctx context.Context, status domain.ReferenceStatus) error {
	m := mapping.ToModelReferenceStatus(status)

	query := `
		INSERT INTO reference_statuses (reference_type, reference_id, state, settlement_id, last_error, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (reference_type, reference_id) DO UPDATE
		SET state = EXCLUDED.state,
		    settlement_id = EXCLUDED.settlement_id,
		    last_error = EXCLUDED.last_error,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReferenceType, m.ReferenceID, m.State, m.SettlementID, m.LastError, m.UpdatedAt, m.UpdatedBy)
	if err != nil {
		return translatePgError(err, "failed to save status of "+m.ReferenceType+" "+m.ReferenceID)
	}
	return nil
}

// FindReferenceStatus retrieves the status of a reference.
func (r *PgxReferenceRepository) FindReferenceStatus(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.ReferenceStatus, error) {
	query := `
		SELECT reference_type, reference_id, state, settlement_id, last_error, updated_at, updated_by
		FROM reference_statuses
		WHERE reference_type = $1 AND reference_id = $2;
	`
	var m models.ReferenceStatus
	err := r.Pool.QueryRow(ctx, query, string(refType), refID).Scan(
		&m.ReferenceType, &m.ReferenceID, &m.State, &m.SettlementID, &m.LastError, &m.UpdatedAt, &m.UpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find status of %s %s: %w", refType, refID, err)
	}
	status := mapping.ToDomainReferenceStatus(m)
	return &status, nil
}

// SaveBalanceMirror stores the mirror unless one with an equal or higher
// version is already stored.
func (r *PgxReferenceRepository) SaveBalanceMirror(ctx context.Context, mirror domain.BalanceMirror) error {
	m := mapping.ToModelBalanceMirror(mirror)

	query := `
		INSERT INTO balance_mirrors (owner_type, owner_id, account_id, balance, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_type, owner_id) DO UPDATE
		SET account_id = EXCLUDED.account_id,
		    balance = EXCLUDED.balance,
		    version = EXCLUDED.version,
		    updated_at = EXCLUDED.updated_at
		WHERE balance_mirrors.version < EXCLUDED.version;
	`
	_, err := r.Pool.Exec(ctx, query, m.OwnerType, m.OwnerID, m.AccountID, m.Balance, m.Version, m.UpdatedAt)
	if err != nil {
		return translatePgError(err, "failed to save balance mirror of "+m.OwnerType+" "+m.OwnerID)
	}
	return nil
}

// FindBalanceMirror retrieves the mirror held for an owner.
func (r *PgxReferenceRepository) FindBalanceMirror(ctx context.Context, owner domain.OwnerRef) (*domain.BalanceMirror, error) {
	query := `
		SELECT owner_type, owner_id, account_id, balance, version, updated_at
		FROM balance_mirrors
		WHERE owner_type = $1 AND owner_id = $2;
	`
	var m models.BalanceMirror
	err := r.Pool.QueryRow(ctx, query, string(owner.Type), owner.ID).Scan(
		&m.OwnerType, &m.OwnerID, &m.AccountID, &m.Balance, &m.Version, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance mirror of %s %s: %w", owner.Type, owner.ID, err)
	}
	mirror := mapping.ToDomainBalanceMirror(m)
	return &mirror, nil
}
