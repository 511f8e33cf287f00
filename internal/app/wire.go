// Package app assembles repositories and domain services for the binaries.
package app

import (
	"fmt"
	"time"

	"coopledger/internal/core/numerator"
	"coopledger/internal/core/tx"
	"coopledger/internal/domain/dividend"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/ledger"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
	"coopledger/internal/domain/settlement"
	v1 "coopledger/internal/infrastructure/http/v1"
	"coopledger/internal/infrastructure/storage/memory"
	"coopledger/internal/infrastructure/storage/postgres"
	"coopledger/internal/infrastructure/storage/postgres/catalog_repo"
	"coopledger/internal/infrastructure/storage/postgres/document_repo"
	"coopledger/internal/infrastructure/storage/postgres/register_repo"
	"coopledger/internal/infrastructure/storage/postgres/report_repo"
	pkgnumerator "coopledger/pkg/numerator"
)

// Backend is one storage implementation of every repository contract.
type Backend struct {
	Products  inventory.Repository
	Purchases purchase.Repository
	Members   members.Repository
	Orders    settlement.OrderRepository
	Archive   dividend.ArchiveRepository
	Numbers   numerator.Generator

	TxManager tx.Manager
	ReadOnly  tx.ReadOnlyManager

	Idempotency settlement.IdempotencyStore
	Events      settlement.EventPublisher
	Audit       settlement.AuditLogger
}

// MemoryBackend serves everything from store.
func MemoryBackend(store *memory.Store, idempotencyTTL time.Duration) Backend {
	return Backend{
		Products:    store.Products(),
		Purchases:   store.Purchases(),
		Members:     store.Members(),
		Orders:      store.Orders(),
		Archive:     store.Archive(),
		Numbers:     store.Numbers(),
		TxManager:   memory.TxManager{},
		ReadOnly:    memory.TxManager{},
		Idempotency: store.Idempotency(idempotencyTTL),
		Events:      store.Events(),
		Audit:       store.Audit(),
	}
}

// PostgresBackend serves everything from the database behind pool.
func PostgresBackend(pool *postgres.Pool, idempotencyTTL time.Duration) (Backend, error) {
	txm := postgres.NewTxManager(pool)

	audit, err := postgres.NewAuditService(txm)
	if err != nil {
		return Backend{}, fmt.Errorf("audit service: %w", err)
	}

	return Backend{
		Products:    catalog_repo.NewProductRepo(txm),
		Purchases:   register_repo.NewPurchaseHistoryRepo(txm),
		Members:     catalog_repo.NewMemberRepo(txm),
		Orders:      document_repo.NewSalesOrderRepo(txm),
		Archive:     report_repo.NewArchiveRepo(txm),
		Numbers:     pkgnumerator.New(pool),
		TxManager:   txm,
		ReadOnly:    txm,
		Idempotency: postgres.NewIdempotencyStore(txm, idempotencyTTL),
		Events:      postgres.NewOutboxPublisher(txm),
		Audit:       audit,
	}, nil
}

// NewServices builds the domain services on top of b.
func NewServices(b Backend, cfg settlement.Config, rec settlement.Recorder) v1.Services {
	inv := inventory.NewService(b.Products)
	calc := dividend.NewCalculator(b.Purchases, b.Products, b.Members, b.ReadOnly)

	engine := settlement.NewEngine(cfg, settlement.Deps{
		Inventory:   inv,
		Purchases:   b.Purchases,
		Orders:      b.Orders,
		Numbers:     b.Numbers,
		TxManager:   b.TxManager,
		Idempotency: b.Idempotency,
		Events:      b.Events,
		Audit:       b.Audit,
		Metrics:     rec,
	})

	return v1.Services{
		Engine:     engine,
		Orders:     settlement.NewOrderService(b.Orders),
		Inventory:  inv,
		Purchases:  purchase.NewService(b.Purchases),
		Members:    members.NewService(b.Members),
		Calculator: calc,
		Ledger:     ledger.NewService(b.Members, b.Purchases, b.Products, calc, b.ReadOnly),
		Archiver:   dividend.NewArchiver(calc, b.Archive, b.TxManager),
	}
}
