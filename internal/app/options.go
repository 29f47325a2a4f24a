package app

import (
	"os"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/logger"

	"go.uber.org/zap"
)

// 启动模式：all 同时运行 API 与关账 worker
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// ValidMode 判断启动模式是否受支持，空值按 all 处理
func ValidMode(mode string) bool {
	switch mode {
	case "", ModeAll, ModeAPI, ModeWorker:
		return true
	default:
		return false
	}
}

// 关账任务可能正在写库，留足收尾时间
const defaultShutdownTimeout = 30 * time.Second

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
