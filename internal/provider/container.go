package provider

import (
	"github.com/ecofinds/internal/authz"
	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/metrics"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/queue"
	"github.com/ecofinds/internal/repository"
	"github.com/ecofinds/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Metrics

	// Repositories
	AdminRepo    repository.AdminRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	CartRepo     repository.CartRepository
	PurchaseRepo repository.PurchaseRepository
	OutboxRepo   repository.OutboxRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserAuthService *service.UserAuthService
	UserService     *service.UserService
	CaptchaService  *service.CaptchaService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	PurchaseService *service.PurchaseService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Metrics:     metrics.New(),
	}
	c.initRepositories(models.DB)

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService

	c.initServices()
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.PurchaseRepo = repository.NewPurchaseRepository(db)
	c.OutboxRepo = repository.NewOutboxRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.ProductRepo, c.CartRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.CartRepo, cfg.Listing, cfg.App.PlaceholderImage)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.CheckoutService = service.NewCheckoutService(
		cfg.Checkout,
		cfg.Events,
		c.CartRepo,
		c.ProductRepo,
		c.PurchaseRepo,
		c.OutboxRepo,
		c.QueueClient,
		c.Metrics,
	)
	c.PurchaseService = service.NewPurchaseService(c.PurchaseRepo)
}

// NewForDB 基于指定数据库构建容器，不连接 Redis 与队列
func NewForDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	c := &Container{Config: cfg, Metrics: metrics.New()}
	c.initRepositories(db)
	authzService, err := authz.NewService(db)
	if err != nil {
		return nil, err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return nil, err
	}
	c.AuthzService = authzService
	c.initServices()
	return c, nil
}
