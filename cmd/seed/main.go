package main

import (
	"os"

	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Database.SQLLog); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	data, err := loadFixtures()
	if err != nil {
		stdLog.Fatalf("Failed to load fixtures: %v", err)
	}

	password := os.Getenv("ECOFINDS_SEED_PASSWORD")
	if password == "" {
		password = defaultSeedPassword
	}
	result, err := seed(models.DB, data, password)
	if err != nil {
		stdLog.Fatalf("Failed to seed database: %v", err)
	}
	stdLog.Printf("Seed finished: %d categories, %d products created (seller %s)",
		result.Categories, result.Products, data.Seller.Email)
}
