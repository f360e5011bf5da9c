//go:build wireinject
// +build wireinject

package stock

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sellhub/pos-backend/internal/stock/domain"
	"github.com/sellhub/pos-backend/internal/stock/repository"
)

// ProvideLedgerRepository provides the stock ledger repository
func ProvideLedgerRepository(db *gorm.DB) domain.LedgerRepository {
	return repository.NewGormLedgerRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideLedgerRepository,
)

// InitializeCoordinator initializes the stock coordinator, the single
// mutation path for every stock change in the system
func InitializeCoordinator(db *gorm.DB, notifier Notifier) (*Coordinator, error) {
	wire.Build(
		RepositorySet,
		NewCoordinator,
	)
	return nil, nil
}
