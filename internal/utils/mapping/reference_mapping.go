package mapping

import (
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/SscSPs/travel_settlement/internal/models"
)

// ToModelReferenceStatus converts a domain ReferenceStatus to a model ReferenceStatus
func ToModelReferenceStatus(d domain.ReferenceStatus) models.ReferenceStatus {
	m := models.ReferenceStatus{
		ReferenceType: string(d.ReferenceType),
		ReferenceID:   d.ReferenceID,
		State:         string(d.State),
		UpdatedAt:     d.UpdatedAt,
		UpdatedBy:     d.UpdatedBy,
	}
	if d.SettlementID != "" {
		id := d.SettlementID
		m.SettlementID = &id
	}
	if d.LastError != "" {
		msg := d.LastError
		m.LastError = &msg
	}
	return m
}

// ToDomainReferenceStatus converts a model ReferenceStatus to a domain ReferenceStatus
func ToDomainReferenceStatus(m models.ReferenceStatus) domain.ReferenceStatus {
	d := domain.ReferenceStatus{
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		State:         domain.ReferenceState(m.State),
		UpdatedAt:     m.UpdatedAt,
		UpdatedBy:     m.UpdatedBy,
	}
	if m.SettlementID != nil {
		d.SettlementID = *m.SettlementID
	}
	if m.LastError != nil {
		d.LastError = *m.LastError
	}
	return d
}

// ToModelBalanceMirror converts a domain BalanceMirror to a model BalanceMirror
func ToModelBalanceMirror(d domain.BalanceMirror) models.BalanceMirror {
	return models.BalanceMirror{
		OwnerType: string(d.Owner.Type),
		OwnerID:   d.Owner.ID,
		AccountID: d.AccountID,
		Balance:   d.Balance,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainBalanceMirror converts a model BalanceMirror to a domain BalanceMirror
func ToDomainBalanceMirror(m models.BalanceMirror) domain.BalanceMirror {
	return domain.BalanceMirror{
		Owner:     domain.OwnerRef{Type: domain.OwnerType(m.OwnerType), ID: m.OwnerID},
		AccountID: m.AccountID,
		Balance:   m.Balance,
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}
}
