// Package main provides a CLI tool for seeding the database with demo
// members and production lots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"coopledger/internal/app"
	"coopledger/internal/config"
	"coopledger/internal/infrastructure/storage/postgres"
	"coopledger/pkg/logger"
)

var (
	memberColumns  = []string{"name", "occupation", "share_count"}
	productColumns = []string{"name", "category", "member_name", "unit", "price", "quantity"}
)

func main() {
	reset := flag.Bool("reset", false, "truncate members, products, history, orders and archive before seeding")
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}

	txm := postgres.NewTxManager(pool)
	batch := postgres.NewBatchInserter(txm)

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if *reset {
			if err := batch.Truncate(ctx,
				"sales_purchase_history", "doc_sales_orders", "fin_ledger", "prod_products", "mem_members",
			); err != nil {
				return err
			}
			log.Info("tables truncated")
		}

		memberRows := make([][]any, 0)
		for _, m := range app.DemoMembers() {
			memberRows = append(memberRows, []any{m.Name, m.Occupation, m.ShareCount})
		}
		n, err := batch.CopyFromSlice(ctx, "mem_members", memberColumns, memberRows)
		if err != nil {
			return err
		}
		log.Infow("members seeded", "count", n)

		productRows := make([][]any, 0)
		for _, p := range app.DemoProducts() {
			productRows = append(productRows, []any{p.Name, p.Category, p.MemberName, p.Unit, p.Price, p.Quantity})
		}
		n, err = batch.CopyFromSlice(ctx, "prod_products", productColumns, productRows)
		if err != nil {
			return err
		}
		log.Infow("products seeded", "count", n)
		return nil
	})
	if err != nil {
		log.Fatalw("seed failed", "error", err)
	}

	log.Info("seed completed")
}
