package config

import (
	"fmt"
	"strings"

	"github.com/o4o-platform/settlement/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Queue      QueueConfig      `mapstructure:"queue"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Security   SecurityConfig   `mapstructure:"security"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	StoreHub   StoreHubConfig   `mapstructure:"store_hub"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host                string `mapstructure:"host"`
	Port                string `mapstructure:"port"`
	Mode                string `mapstructure:"mode"` // debug / release
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN      string             `mapstructure:"dsn"`    // 数据库连接串
	LogLevel string             `mapstructure:"log_level"`
	Pool     DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 校验配置（仅校验，不负责签发）
type JWTConfig struct {
	SecretKey string `mapstructure:"secret"`
	Issuer    string `mapstructure:"issuer"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	FeeCalcRateLimit RateLimitConfig `mapstructure:"fee_calc_rate_limit"`
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// SettlementConfig 结算参数配置
type SettlementConfig struct {
	Timezone string `mapstructure:"timezone"`
	Currency string `mapstructure:"currency"`

	// 支付处理（Toss）费用，独立于费率策略
	PaymentFeeRate  float64 `mapstructure:"payment_fee_rate"`
	PaymentFeeFixed float64 `mapstructure:"payment_fee_fixed"`

	// 商户佣金
	DefaultCommissionRate  float64 `mapstructure:"default_commission_rate"`
	BonusThreshold         float64 `mapstructure:"bonus_threshold"`
	BonusRate              float64 `mapstructure:"bonus_rate"`
	PlatformFeeRate        float64 `mapstructure:"platform_fee_rate"`
	TransactionFeePerOrder float64 `mapstructure:"transaction_fee_per_order"`

	// 供应商结算
	DefaultPlatformCommissionRate  float64 `mapstructure:"default_platform_commission_rate"`
	SupplierTransactionFeePerOrder float64 `mapstructure:"supplier_transaction_fee_per_order"`
	ProcessingFeeRate              float64 `mapstructure:"processing_fee_rate"`
	ShippingCostPerOrder           float64 `mapstructure:"shipping_cost_per_order"`

	HistoryLimit int             `mapstructure:"history_limit"`
	AutoClose    AutoCloseConfig `mapstructure:"auto_close"`
}

// AutoCloseConfig 月度自动结算配置
type AutoCloseConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Day     int  `mapstructure:"day"` // 每月第几日起对上月执行结算
}

// StoreHubConfig 门店聚合看板配置
type StoreHubConfig struct {
	CacheTTLSeconds     int `mapstructure:"cache_ttl_seconds"`
	QueryTimeoutSeconds int `mapstructure:"query_timeout_seconds"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持（例如 settlement.payment_fee_rate -> SETTLEMENT_PAYMENT_FEE_RATE）
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "settlement.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/settlement.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "o4o")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  5,
		"critical": 3,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.fee_calc_rate_limit.window_seconds", 60)
	v.SetDefault("security.fee_calc_rate_limit.max_requests", 120)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("settlement.timezone", "Asia/Seoul")
	v.SetDefault("settlement.currency", "KRW")
	v.SetDefault("settlement.payment_fee_rate", 3.0)
	v.SetDefault("settlement.payment_fee_fixed", 0)
	v.SetDefault("settlement.default_commission_rate", 10.0)
	v.SetDefault("settlement.bonus_threshold", 100000)
	v.SetDefault("settlement.bonus_rate", 2.0)
	v.SetDefault("settlement.platform_fee_rate", 2.0)
	v.SetDefault("settlement.transaction_fee_per_order", 0.5)
	v.SetDefault("settlement.default_platform_commission_rate", 15.0)
	v.SetDefault("settlement.supplier_transaction_fee_per_order", 1.0)
	v.SetDefault("settlement.processing_fee_rate", 2.9)
	v.SetDefault("settlement.shipping_cost_per_order", 5.0)
	v.SetDefault("settlement.history_limit", 12)
	v.SetDefault("settlement.auto_close.enabled", false)
	v.SetDefault("settlement.auto_close.day", 1)
	v.SetDefault("store_hub.cache_ttl_seconds", 30)
	v.SetDefault("store_hub.query_timeout_seconds", 5)
}
