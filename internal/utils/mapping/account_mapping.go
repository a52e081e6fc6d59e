package mapping

import (
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/SscSPs/travel_settlement/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:    d.AccountID,
		Name:         d.Name,
		Kind:         string(d.Kind),
		Category:     string(d.Category),
		CurrencyCode: d.CurrencyCode,
		CreditLimit:  d.CreditLimit,
		Balance:      d.Balance,
		Version:      d.Version,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.Owner != nil {
		ownerType := string(d.Owner.Type)
		ownerID := d.Owner.ID
		m.OwnerType = &ownerType
		m.OwnerID = &ownerID
	}
	return m
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	d := domain.Account{
		AccountID:    m.AccountID,
		Name:         m.Name,
		Kind:         domain.AccountKind(m.Kind),
		Category:     domain.AccountCategory(m.Category),
		CurrencyCode: m.CurrencyCode,
		CreditLimit:  m.CreditLimit,
		Balance:      m.Balance,
		Version:      m.Version,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.OwnerType != nil && m.OwnerID != nil {
		d.Owner = &domain.OwnerRef{Type: domain.OwnerType(*m.OwnerType), ID: *m.OwnerID}
	}
	return d
}
