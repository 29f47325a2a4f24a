package app

import (
	"errors"

	"github.com/o4o-platform/settlement/internal/cache"
	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/provider"
	"github.com/o4o-platform/settlement/internal/router"
	"github.com/o4o-platform/settlement/internal/worker"
)

// BuildRunner 构建服务运行器，cleanup 在全部服务停止后释放队列与缓存连接
func BuildRunner(cfg *config.Config, mode string) (runner *Runner, cleanup func(), err error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	cleanup = func() {
		if err := container.QueueClient.Close(); err != nil {
			logger.Warnw("app_queue_client_close_failed", "error", err)
		}
		if err := cache.Close(); err != nil {
			logger.Warnw("app_cache_close_failed", "error", err)
		}
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务，all 模式下未启用队列时只跑 HTTP
	if mode == ModeAll && !cfg.Queue.Enabled {
		logger.Warnw("app_worker_skipped_queue_disabled", "mode", mode)
	} else if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		services = append(services, workerService)
	}

	// 模式无效时不会有任何服务
	if len(services) == 0 {
		cleanup()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), cleanup, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, cleanup, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer cleanup()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "services", runner.Names())
	return RunWithOptions(runner, opts)
}
