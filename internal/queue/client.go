package queue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue  = constants.QueueDefault
	CriticalQueue = constants.QueueCritical

	defaultConcurrency  = 10
	periodCloseMaxRetry = 3
)

// ErrTaskAlreadyQueued 相同 TaskID 的任务尚未完成
var ErrTaskAlreadyQueued = errors.New("task already queued")

// Client 投递结算任务；未启用队列时所有投递都是空操作
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(RedisOpt(cfg))}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueuePeriodClose 关账走 critical 队列
func (c *Client) EnqueuePeriodClose(payload PeriodClosePayload, opts ...asynq.Option) error {
	return c.enqueue(TaskPeriodClose, payload, opts,
		asynq.Queue(CriticalQueue),
		asynq.TaskID(PeriodCloseTaskID(payload.Period)),
		asynq.MaxRetry(periodCloseMaxRetry),
	)
}

func (c *Client) EnqueueVendorCommission(payload VendorCommissionPayload, opts ...asynq.Option) error {
	return c.enqueue(TaskVendorCommission, payload, opts,
		asynq.Queue(DefaultQueue),
		asynq.TaskID(ComputeTaskID("vendor", payload.VendorID, payload.Period)),
	)
}

func (c *Client) EnqueueSupplierSettlement(payload SupplierSettlementPayload, opts ...asynq.Option) error {
	return c.enqueue(TaskSupplierSettlement, payload, opts,
		asynq.Queue(DefaultQueue),
		asynq.TaskID(ComputeTaskID("supplier", payload.SupplierID, payload.Period)),
	)
}

// enqueue 调用方选项追加在默认选项之后，可覆盖队列与重试次数
func (c *Client) enqueue(taskType string, payload interface{}, extra []asynq.Option, base ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := newTask(taskType, payload)
	if err != nil {
		return err
	}
	_, err = c.inner.Enqueue(task, append(base, extra...)...)
	switch {
	case errors.Is(err, asynq.ErrTaskIDConflict), errors.Is(err, asynq.ErrDuplicateTask):
		return ErrTaskAlreadyQueued
	case err != nil:
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

// BuildServerConfig 未配置权重时 critical 优先于 default
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{CriticalQueue: 6, DefaultQueue: 3},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return RedisOpt(cfg), serverCfg
}

// RedisOpt 缺省连接 127.0.0.1:6379
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host, port := strings.TrimSpace(cfg.Host), cfg.Port
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
