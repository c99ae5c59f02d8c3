package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/ecofinds/internal/app"
	"github.com/ecofinds/internal/config"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker, relay")
	flag.Parse()
	if !app.ValidMode(mode) {
		fmt.Fprintf(os.Stderr, "未知启动模式: %s\n", mode)
		os.Exit(2)
	}

	printStartupBanner(mode)

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	checkSecrets(stdLog, cfg)

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Database.SQLLog); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化默认管理员账号
	defaultAdminUser := os.Getenv("ECOFINDS_DEFAULT_ADMIN_USERNAME")
	defaultAdminPass := os.Getenv("ECOFINDS_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && defaultAdminPass == "" {
		stdLog.Printf("警告: 未设置 ECOFINDS_DEFAULT_ADMIN_PASSWORD，已跳过默认管理员初始化")
	} else if err := models.InitDefaultAdmin(defaultAdminUser, defaultAdminPass); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

// checkSecrets release 模式下拒绝弱 JWT 密钥
func checkSecrets(stdLog *log.Logger, cfg *config.Config) {
	secrets := map[string]string{
		"user_jwt":  cfg.UserJWT.SecretKey,
		"admin_jwt": cfg.AdminJWT.SecretKey,
	}
	for name, secret := range secrets {
		if !isWeakSecret(secret) {
			continue
		}
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("%s secret 过弱或仍为默认值，请在生产环境中配置强随机密钥", name)
		}
		stdLog.Printf("警告: %s secret 过弱或仍为默认值，建议在生产环境中更换", name)
	}
	if cfg.UserJWT.SecretKey != "" && cfg.UserJWT.SecretKey == cfg.AdminJWT.SecretKey {
		stdLog.Printf("警告: user_jwt 与 admin_jwt 使用了相同的密钥")
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + "███████╗ ██████╗ ██████╗ ███████╗██╗███╗   ██╗██████╗ ███████╗" + ansiReset)
	fmt.Println(ansiCyan + "██╔════╝██╔════╝██╔═══██╗██╔════╝██║████╗  ██║██╔══██╗██╔════╝" + ansiReset)
	fmt.Println(ansiCyan + "█████╗  ██║     ██║   ██║█████╗  ██║██╔██╗ ██║██║  ██║███████╗" + ansiReset)
	fmt.Println(ansiCyan + "██╔══╝  ██║     ██║   ██║██╔══╝  ██║██║╚██╗██║██║  ██║╚════██║" + ansiReset)
	fmt.Println(ansiCyan + "███████╗╚██████╗╚██████╔╝██║     ██║██║ ╚████║██████╔╝███████║" + ansiReset)
	fmt.Println(ansiCyan + "╚══════╝ ╚═════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═══╝╚═════╝ ╚══════╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "二手好物交易平台 API" + ansiReset + ansiDim + "  mode=" + mode + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key", "ecofinds-secret"} {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
