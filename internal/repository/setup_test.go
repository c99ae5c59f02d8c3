package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ecofinds/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB 每个测试使用独立的内存库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, models.MigrateDB(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Status:       "active",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID, categoryID uint, title, price string, status models.ProductStatus) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:       title,
		Description: title + " description",
		Price:       models.MustMoney(price),
		CategoryID:  categoryID,
		SellerID:    sellerID,
		Images:      models.StringArray{"/placeholder-image.png"},
		Condition:   "good",
		Status:      status,
		Tags:        models.StringArray{strings.ToLower(title)},
	}
	require.NoError(t, db.Omit("Category", "Seller").Create(product).Error)
	return product
}
