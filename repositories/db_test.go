package repositories

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"storefront/config"
	"storefront/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	testDB *pgxpool.Pool
	dbErr  error
)

// db returns a migrated pool on TEST_POSTGRES_DSN with every table emptied.
// Tests using it must not run in parallel.
func db(tb testing.TB) *pgxpool.Pool {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}
		cfg := &config.Config{DatabaseURL: dsn, MigrationsDir: "../database/migration"}
		if err := config.RunMigrations(cfg); err != nil {
			dbErr = err
			return
		}
		testDB, dbErr = pgxpool.New(context.Background(), dsn)
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run repository integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}

	_, err := testDB.Exec(context.Background(),
		`TRUNCATE cart_items, carts, product_images, products, collections, users RESTART IDENTITY CASCADE`)
	if err != nil {
		tb.Fatalf("failed to reset test db: %v", err)
	}
	return testDB
}

func seedProduct(tb testing.TB, pool *pgxpool.Pool) (*models.Collection, *models.Product) {
	tb.Helper()
	ctx := context.Background()

	col := &models.Collection{Title: "Grocery"}
	if err := NewCollectionRepository(pool).Create(ctx, col); err != nil {
		tb.Fatalf("create collection: %v", err)
	}
	p := &models.Product{
		Title:        "Bread",
		Slug:         "bread",
		UnitPrice:    decimal.RequireFromString("4.00"),
		Inventory:    10,
		CollectionID: col.ID,
	}
	if err := NewProductRepository(pool).Create(ctx, p); err != nil {
		tb.Fatalf("create product: %v", err)
	}
	return col, p
}
