package repositories

import (
	"context"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
)

// ReferenceStatusRepository stores the status event adapters reflect on their
// entities and the balance mirrors they maintain.
type ReferenceStatusRepository interface {
	// SaveReferenceStatus inserts or replaces the status of a reference.
	SaveReferenceStatus(ctx context.Context, status domain.ReferenceStatus) error

	// FindReferenceStatus retrieves the status of a reference.
	FindReferenceStatus(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.ReferenceStatus, error)

	// SaveBalanceMirror stores the mirror unless a mirror with an equal or
	// higher version is already stored.
	SaveBalanceMirror(ctx context.Context, mirror domain.BalanceMirror) error

	// FindBalanceMirror retrieves the mirror held for an owner.
	FindBalanceMirror(ctx context.Context, owner domain.OwnerRef) (*domain.BalanceMirror, error)
}
