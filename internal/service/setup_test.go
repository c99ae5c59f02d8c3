package service

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/metrics"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	cfg          *config.Config
	metrics      *metrics.Metrics
	userRepo     *repository.GormUserRepository
	categoryRepo *repository.GormCategoryRepository
	productRepo  *repository.GormProductRepository
	cartRepo     *repository.GormCartRepository
	purchaseRepo *repository.GormPurchaseRepository
	outboxRepo   *repository.GormOutboxRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.MigrateDB(db))

	cfg := &config.Config{
		App:      config.AppConfig{PlaceholderImage: "/placeholder-image.png"},
		UserJWT:  config.JWTConfig{SecretKey: "user-test-secret", ExpireHours: 1},
		AdminJWT: config.JWTConfig{SecretKey: "admin-test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6}},
		Listing:  config.ListingConfig{DefaultPageSize: 12, MaxPageSize: 100},
		Checkout: config.CheckoutConfig{LockSeconds: 30, IdempotencySeconds: 60, PruneSoldFromCarts: true},
		Events:   config.EventsConfig{Enabled: true, PurchaseTopic: "ecofinds.purchases"},
	}
	return &fixture{
		db:           db,
		cfg:          cfg,
		metrics:      metrics.New(),
		userRepo:     repository.NewUserRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		productRepo:  repository.NewProductRepository(db),
		cartRepo:     repository.NewCartRepository(db),
		purchaseRepo: repository.NewPurchaseRepository(db),
		outboxRepo:   repository.NewOutboxRepository(db),
	}
}

// useRedis 启动内存 Redis 并让 cache 包指向它，测试结束后恢复为禁用
func useRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	require.NoError(t, cache.InitRedis(&config.RedisConfig{Enabled: true, Host: server.Host(), Port: port, Prefix: "ecofinds"}))
	t.Cleanup(func() { _ = cache.Close() })
	return server
}

func (f *fixture) cartService() *CartService {
	return NewCartService(f.cartRepo, f.productRepo)
}

func (f *fixture) checkoutService() *CheckoutService {
	return NewCheckoutService(f.cfg.Checkout, f.cfg.Events, f.cartRepo, f.productRepo, f.purchaseRepo, f.outboxRepo, nil, f.metrics)
}

func (f *fixture) productService() *ProductService {
	return NewProductService(f.productRepo, f.categoryRepo, f.cartRepo, f.cfg.Listing, f.cfg.App.PlaceholderImage)
}

func (f *fixture) userService() *UserService {
	return NewUserService(f.userRepo, f.productRepo, f.cartRepo)
}

func (f *fixture) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Status:       "active",
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, IsActive: true}
	require.NoError(t, f.db.Create(category).Error)
	return category
}

func (f *fixture) seedProduct(t *testing.T, sellerID, categoryID uint, title, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:       title,
		Description: title + " description",
		Price:       models.MustMoney(price),
		CategoryID:  categoryID,
		SellerID:    sellerID,
		Images:      models.StringArray{"/placeholder-image.png"},
		Condition:   "good",
		Status:      models.ProductAvailable,
	}
	require.NoError(t, f.db.Omit("Category", "Seller").Create(product).Error)
	return product
}

func (f *fixture) setStatus(t *testing.T, productID uint, status models.ProductStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", productID).Update("status", status).Error)
}

func (f *fixture) reloadProduct(t *testing.T, productID uint) models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, f.db.Unscoped().First(&product, productID).Error)
	return product
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}
