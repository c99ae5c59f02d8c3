package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/provider"
	"github.com/ecofinds/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.MigrateDB(db))

	cfg := &config.Config{
		App:      config.AppConfig{PlaceholderImage: "/placeholder-image.png"},
		Listing:  config.ListingConfig{DefaultPageSize: 12, MaxPageSize: 100},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6}},
	}
	container, err := provider.NewForDB(cfg, db)
	require.NoError(t, err)
	return NewConsumer(container), db
}

func seedSale(t *testing.T, db *gorm.DB) (buyer, rival *models.User, product *models.Product) {
	t.Helper()
	seller := &models.User{Username: "seller", Email: "seller@example.com", PasswordHash: "x"}
	buyer = &models.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x"}
	rival = &models.User{Username: "rival", Email: "rival@example.com", PasswordHash: "x"}
	for _, u := range []*models.User{seller, buyer, rival} {
		require.NoError(t, db.Create(u).Error)
	}
	category := &models.Category{Name: "Books", IsActive: true}
	require.NoError(t, db.Create(category).Error)
	product = &models.Product{
		Title:      "Atlas",
		Price:      models.MustMoney("20"),
		CategoryID: category.ID,
		SellerID:   seller.ID,
		Condition:  "good",
		Status:     models.ProductAvailable,
	}
	require.NoError(t, db.Omit("Category", "Seller").Create(product).Error)
	return buyer, rival, product
}

func newTask(t *testing.T, typename string, payload interface{}) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(typename, body)
}

func TestHandleCartPruneSold(t *testing.T) {
	consumer, db := setupConsumer(t)
	buyer, rival, product := seedSale(t, db)
	ctx := context.Background()

	_, err := consumer.CartService.AddToCart(rival.ID, product.ID, 1)
	require.NoError(t, err)
	view, err := consumer.CartService.GetCart(rival.ID)
	require.NoError(t, err)
	require.Equal(t, 1, view.Count)

	_, err = consumer.CartService.AddToCart(buyer.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = consumer.CheckoutService.Checkout(ctx, buyer.ID, "")
	require.NoError(t, err)

	task := newTask(t, queue.TaskCartPruneSold, queue.CartPruneSoldPayload{ProductIDs: []uint{product.ID}})
	require.NoError(t, consumer.handleCartPruneSold(ctx, task))

	view, err = consumer.CartService.GetCart(rival.ID)
	require.NoError(t, err)
	assert.Zero(t, view.Count)
}

func TestHandlePurchaseCreated(t *testing.T) {
	consumer, db := setupConsumer(t)
	buyer, _, product := seedSale(t, db)
	ctx := context.Background()

	_, err := consumer.CartService.AddToCart(buyer.ID, product.ID, 1)
	require.NoError(t, err)
	result, err := consumer.CheckoutService.Checkout(ctx, buyer.ID, "")
	require.NoError(t, err)
	purchase := result.Purchases[0]

	task := newTask(t, queue.TaskPurchaseCreated, queue.PurchaseCreatedPayload{
		PurchaseID: purchase.ID,
		CheckoutNo: purchase.CheckoutNo,
		SellerID:   purchase.SellerID,
	})
	assert.NoError(t, consumer.handlePurchaseCreated(ctx, task))

	missing := newTask(t, queue.TaskPurchaseCreated, queue.PurchaseCreatedPayload{PurchaseID: 999})
	assert.NoError(t, consumer.handlePurchaseCreated(ctx, missing))

	broken := asynq.NewTask(queue.TaskPurchaseCreated, []byte("{"))
	assert.Error(t, consumer.handlePurchaseCreated(ctx, broken))
}

func TestNewServiceRequiresQueue(t *testing.T) {
	_, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{})
	assert.Error(t, err)
	_, err = NewService(&config.QueueConfig{Enabled: true}, nil)
	assert.Error(t, err)

	var svc *Service
	assert.Equal(t, "worker", svc.Name())
	assert.NoError(t, svc.Stop(context.Background()))
}
