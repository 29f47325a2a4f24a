package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	_ "time/tzdata"

	"github.com/o4o-platform/settlement/internal/app"
	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	var mode string
	var migrateUpstream bool
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.BoolVar(&migrateUpstream, "migrate-upstream", false, "同时创建上游只读表（开发环境使用）")
	flag.Parse()

	if err := run(mode, migrateUpstream); err != nil {
		fmt.Fprintf(os.Stderr, "settlement: %v\n", err)
		os.Exit(1)
	}
}

func run(mode string, migrateUpstream bool) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if !app.ValidMode(mode) {
		return fmt.Errorf("unknown mode %q (want all, api or worker)", mode)
	}

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	release := cfg.Server.Mode == "release"
	logger.Infow("app_boot",
		"mode", mode,
		"server_mode", cfg.Server.Mode,
		"db_driver", cfg.Database.Driver,
		"timezone", cfg.Settlement.Timezone,
		"queue_enabled", cfg.Queue.Enabled,
	)

	if isWeakSecret(cfg.JWT.SecretKey) {
		if release {
			return fmt.Errorf("jwt secret is weak or still the default, configure a strong random key")
		}
		logger.Warnw("app_jwt_secret_weak")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	// 上游表归其他服务所有，生产环境只迁移结算自有表
	if err := models.AutoMigrate(migrateUpstream || !release); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	return app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	})
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
