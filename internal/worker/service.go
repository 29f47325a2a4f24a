package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/queue"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/hibiken/asynq"
)

const autoCloseInterval = time.Hour

// Service 任务消费进程，同时负责按月推送自动关账
type Service struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer

	mu             sync.Mutex
	lastAutoClosed string
}

func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("worker requires queue.enabled")
	}
	if consumer == nil {
		return nil, errors.New("worker consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server:   asynq.NewServer(opt, serverCfg),
		mux:      mux,
		consumer: consumer,
	}, nil
}

func (s *Service) Name() string {
	return "worker"
}

// Start 阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	if s.autoCloseEnabled() {
		go s.runAutoCloseLoop(ctx)
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束，asynq 自身控制超时
func (s *Service) Stop(context.Context) error {
	if s != nil && s.server != nil {
		s.server.Shutdown()
	}
	return nil
}

func (s *Service) autoCloseEnabled() bool {
	return s.consumer != nil && s.consumer.PeriodCloseService != nil && s.consumer.QueueClient.Enabled()
}

func (s *Service) runAutoCloseLoop(ctx context.Context) {
	ticker := time.NewTicker(autoCloseInterval)
	defer ticker.Stop()
	for now := time.Now(); ; {
		s.autoCloseTick(now)
		select {
		case <-ctx.Done():
			return
		case now = <-ticker.C:
		}
	}
}

// autoCloseTick 到期时推送上月关账任务，每个周期只推送一次
func (s *Service) autoCloseTick(now time.Time) (string, bool) {
	if s == nil || s.consumer == nil || s.consumer.PeriodCloseService == nil {
		return "", false
	}
	period, due := s.consumer.PeriodCloseService.DueAutoClosePeriod(now)
	if !due {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastAutoClosed == period {
		return period, false
	}
	err := s.consumer.QueueClient.EnqueuePeriodClose(queue.PeriodClosePayload{
		Period: period,
		Source: service.PeriodCloseSourceScheduler,
	})
	if err != nil && !errors.Is(err, queue.ErrTaskAlreadyQueued) {
		logger.Warnw("worker_auto_close_enqueue_failed", "period", period, "error", err)
		return period, false
	}
	s.lastAutoClosed = period
	logger.Infow("worker_auto_close_enqueued", "period", period, "already_queued", err != nil)
	return period, true
}
