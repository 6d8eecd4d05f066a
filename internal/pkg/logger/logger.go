package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = NewLogger(os.Getenv("APP_ENV"))
)

// NewLogger は環境に応じたロガーを作成する
// productionではJSON、それ以外では色付きコンソール出力になる
func NewLogger(env string) *zap.Logger {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// LOG_LEVELで上書き可能（debug, info, warn, error）
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(lvl)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Get は現在のロガーを返す
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Set はロガーを差し替える（主に起動時・テスト用）
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}

func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

func Sync() error {
	return Get().Sync()
}
