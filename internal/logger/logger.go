package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// serviceName 写入每条日志的 service 字段
const serviceName = "settlement"

const (
	defaultLogDirName    = "logs"
	defaultLogFilename   = "settlement.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// Options 日志级别与文件滚动配置
type Options struct {
	Level      string // 为空时 debug 模式取 debug，其余取 info
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// L 全局实例，Init 之前为 nil
var L *zap.Logger

var (
	fallbackOnce sync.Once
	fallbackLog  *zap.Logger
)

// Init 初始化并替换 zap 全局实例
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	zap.ReplaceGlobals(L)
	return L
}

// New 按运行模式构建 logger
// debug 模式彩色输出到控制台；其他模式写滚动 JSON 文件，error 及以上同时输出到 stderr
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := resolveLevel(options.Level, debug)

	var core zapcore.Core
	if debug {
		cfg := encoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stdout), level)
	} else {
		sink, err := rollingFile(options)
		if err != nil {
			fmt.Fprintf(os.Stderr, "settlement log file unavailable, writing to stdout: %v\n", err)
			sink = zapcore.AddSync(os.Stdout)
		}
		encoder := zapcore.NewJSONEncoder(encoderConfig())
		core = zapcore.NewTee(
			zapcore.NewCore(encoder, sink, level),
			zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), zap.ErrorLevel),
		)
	}
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.Fields(zap.String("service", serviceName)))
}

func resolveLevel(raw string, debug bool) zap.AtomicLevel {
	if raw = strings.TrimSpace(raw); raw != "" {
		if level, err := zap.ParseAtomicLevel(strings.ToLower(raw)); err == nil {
			return level
		}
	}
	if debug {
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zap.NewAtomicLevelAt(zap.InfoLevel)
}

// Z 未初始化时返回 info 级控制台 logger
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	fallbackOnce.Do(func() {
		fallbackLog = zap.New(
			zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), zap.InfoLevel),
			zap.AddCaller(), zap.AddCallerSkip(1),
		)
	})
	return fallbackLog
}

func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW 附带固定字段，例如 request_id
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

// StdLogger 供只接受标准库 *log.Logger 的命令行工具使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

func Debugw(message string, kv ...interface{}) {
	S().Debugw(message, kv...)
}

func Infow(message string, kv ...interface{}) {
	S().Infow(message, kv...)
}

func Warnw(message string, kv ...interface{}) {
	S().Warnw(message, kv...)
}

func Errorw(message string, kv ...interface{}) {
	S().Errorw(message, kv...)
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func rollingFile(options Options) (zapcore.WriteSyncer, error) {
	path, err := resolveLogFilePath(options)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(options.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: positiveOr(options.MaxBackups, defaultLogMaxBackups),
		MaxAge:     positiveOr(options.MaxAgeDays, defaultLogMaxAgeDays),
		Compress:   options.Compress,
		LocalTime:  true,
	}), nil
}

// resolveLogFilePath 目录默认 ./logs，返回前确认文件可写
func resolveLogFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory %s: %w", dir, err)
	}

	name := strings.TrimSpace(options.Filename)
	if name == "" {
		name = defaultLogFilename
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file %s: %w", path, err)
	}
	return path, f.Close()
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
