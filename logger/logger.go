package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop().Sugar()
)

// Init builds the process logger. "development" logs debug and above to the
// console; anything else logs info and above as JSON.
func Init(env string) error {
	var config zap.Config
	if strings.ToLower(env) == "development" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the process logger. Tests use it with zaptest or zap.NewNop.
func Set(l *zap.Logger) {
	mu.Lock()
	log = l.Sugar()
	mu.Unlock()
}

func sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, kv ...interface{}) {
	sugar().Debugw(msg, kv...)
}

func Info(msg string, kv ...interface{}) {
	sugar().Infow(msg, kv...)
}

func Warn(msg string, kv ...interface{}) {
	sugar().Warnw(msg, kv...)
}

func Error(msg string, kv ...interface{}) {
	sugar().Errorw(msg, kv...)
}

func Infof(format string, v ...interface{}) {
	sugar().Infof(format, v...)
}

func Warnf(format string, v ...interface{}) {
	sugar().Warnf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	sugar().Errorf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	sugar().Fatalf(format, v...)
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	_ = sugar().Sync()
}
