package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/boxorder-next/internal/app"
	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
	ansiGreen = "\033[32m"
)

func main() {
	cfg := config.Load()

	var mode string
	flag.StringVar(&mode, "mode", defaultMode(cfg), "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner(cfg, mode)

	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if isWeakSecret(cfg.JWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode != "release", models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	adminUser := os.Getenv("BOX_DEFAULT_ADMIN_USERNAME")
	adminPass := os.Getenv("BOX_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && adminPass == "" {
		stdLog.Printf("警告: 未设置 BOX_DEFAULT_ADMIN_PASSWORD，已跳过默认管理员初始化")
	} else if err := models.InitDefaultAdmin(models.DB, adminUser, adminPass); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}

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

func defaultMode(cfg *config.Config) string {
	if m := strings.TrimSpace(cfg.App.Mode); m != "" {
		return m
	}
	return app.ModeAll
}

func printStartupBanner(cfg *config.Config, mode string) {
	name := cfg.App.Name
	if name == "" {
		name = "Box Order"
	}
	line := strings.Repeat("─", 56)
	fmt.Println(ansiCyan + line + ansiReset)
	fmt.Println(ansiCyan + ansiBold + "  " + name + " API" + ansiReset)
	fmt.Println(ansiGreen + fmt.Sprintf("  listen  %s:%s", cfg.Server.Host, cfg.Server.Port) + ansiReset)
	fmt.Println(ansiGreen + fmt.Sprintf("  mode    %s (%s)", mode, cfg.Server.Mode) + ansiReset)
	fmt.Println(ansiGreen + fmt.Sprintf("  db      %s", cfg.Database.Driver) + ansiReset)
	fmt.Println(ansiDim + line + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key"} {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
