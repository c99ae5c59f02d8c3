package router

import (
	"fmt"
	"strings"

	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/config"
	adminhandlers "github.com/ecofinds/internal/http/handlers/admin"
	publichandlers "github.com/ecofinds/internal/http/handlers/public"
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	handlershared.RegisterValidatorTagNames()
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ecofinds"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := loginRule
	adminLoginRule.Prefix = fmt.Sprintf("%s:rate:admin_login", redisPrefix)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(c.Metrics.Middleware())
	r.NoRoute(NotFoundHandler)

	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(c.Metrics.Handler()))
	}

	userAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService)

	api := r.Group("/api")
	{
		api.GET("/health", publicHandler.Health)

		auth := api.Group("/auth")
		{
			auth.GET("/captcha", publicHandler.GetCaptcha)
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.GET("/me", userAuth, publicHandler.Me)
		}

		users := api.Group("/users")
		{
			users.PUT("/profile", userAuth, publicHandler.UpdateProfile)
			users.DELETE("/profile", userAuth, publicHandler.DeleteAccount)
			users.GET("/:id", publicHandler.GetUserProfile)
		}

		products := api.Group("/products")
		{
			products.GET("", publicHandler.ListProducts)
			products.GET("/categories", publicHandler.ListCategories)
			products.GET("/my-products", userAuth, publicHandler.ListMyProducts)
			products.GET("/:id", publicHandler.GetProduct)
			products.POST("", userAuth, publicHandler.CreateProduct)
			products.PUT("/:id", userAuth, publicHandler.UpdateProduct)
			products.DELETE("/:id", userAuth, publicHandler.DeleteProduct)
		}

		cart := api.Group("/cart", userAuth)
		{
			cart.GET("", publicHandler.GetCart)
			cart.GET("/validate", publicHandler.ValidateCart)
			cart.POST("", publicHandler.AddToCart)
			cart.PUT("/:id", publicHandler.UpdateCartItem)
			cart.DELETE("/:id", publicHandler.RemoveCartItem)
			cart.DELETE("", publicHandler.ClearCart)
		}

		purchases := api.Group("/purchases", userAuth)
		{
			purchases.POST("/checkout", publicHandler.Checkout)
			purchases.GET("", publicHandler.ListPurchases)
			purchases.GET("/sales", publicHandler.ListSales)
			purchases.GET("/:id", publicHandler.GetPurchase)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authenticated := admin.Group("", AdminJWTAuthMiddleware(cfg.AdminJWT.SecretKey, c.AuthService))
			authenticated.GET("/me", adminHandler.GetAdminMe)

			authorized := authenticated.Group("", AdminRBACMiddleware(c.AuthzService))
			{
				// 分类管理
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PUT("/users/:id/status", adminHandler.UpdateUserStatus)

				// 履约
				authorized.GET("/purchases", adminHandler.GetAdminPurchases)
				authorized.PATCH("/purchases/:id/status", adminHandler.UpdatePurchaseStatus)

				// 权限
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoles)
			}
		}
	}

	return r
}
