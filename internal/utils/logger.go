package utils

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// InitLogger builds the process logger. mode "production"/"prod" emits JSON,
// anything else the development console encoder.
func InitLogger(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	SetLogger(base.Sugar())
	return base.Sugar(), nil
}

// SetLogger swaps the process logger (tests use zaptest/observer loggers).
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func Log() *zap.SugaredLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// LogEvent writes a standardized business event with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	Log().Infow(message,
		"module", strings.ToLower(module),
		"action", action,
		"request_id", strings.TrimSpace(requestID),
	)
}

// LogWarn is LogEvent at warn level, for failures that do not abort the action.
func LogWarn(requestID, module, action, message string) {
	Log().Warnw(message,
		"module", strings.ToLower(module),
		"action", action,
		"request_id", strings.TrimSpace(requestID),
	)
}
