//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecofinds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	all := models.AllModels()
	_ = db.Migrator().DropTable(all...)
	require.NoError(t, models.MigrateDB(db))

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(all...)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresConcurrentClaimHasSingleWinner(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	seller := seedUser(t, db, "seller")
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, seller.ID, category.ID, "Vintage Camera", "150", models.ProductAvailable)

	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.ClaimForSale(product.ID, time.Now())
			if err == nil && claimed {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, winners)
}

func TestPostgresSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	seller := seedUser(t, db, "seller")
	category := seedCategory(t, db, "Clothing")
	seedProduct(t, db, seller.ID, category.ID, "Designer Jeans", "45", models.ProductAvailable)

	products, total, err := repo.List(ProductListFilter{
		Page:     1,
		PageSize: 12,
		Search:   "DESIGNER",
		Statuses: []models.ProductStatus{models.ProductAvailable},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, products, 1)
}
