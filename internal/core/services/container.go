package services

import (
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
)

// ContainerConfig carries the settings services are built with.
type ContainerConfig struct {
	System          domain.SystemAccounts
	DefaultCurrency string
	MaxAttempts     int
	ApplyRetries    int
	Publisher       portssvc.SettlementPublisher
	PublishTimeout  time.Duration
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(repos *portsrepo.RepositoryProvider, cfg ContainerConfig) *portssvc.ServiceContainer {
	account := NewAccountService(repos.AccountRepo, repos.LedgerRepo, WithDefaultCurrency(cfg.DefaultCurrency))
	ledger := NewLedgerWriter(repos.LedgerRepo, account, cfg.ApplyRetries)

	settlementOptions := []SettlementServiceOption{WithMaxAttempts(cfg.MaxAttempts)}
	if cfg.Publisher != nil {
		settlementOptions = append(settlementOptions, WithPublisher(cfg.Publisher), WithPublishTimeout(cfg.PublishTimeout))
	}
	settlement := NewSettlementService(account, ledger, repos.LedgerRepo, cfg.System, settlementOptions...)

	return &portssvc.ServiceContainer{
		Account:    account,
		Ledger:     ledger,
		Settlement: settlement,
		Events:     NewEventAdapters(settlement, account, repos.ReferenceRepo),
	}
}
