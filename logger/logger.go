package logger

import (
	"go.uber.org/zap"
)

// Log starts as a no-op logger so library code and tests can log before
// Init runs; main replaces it with the configured production logger.
var Log = zap.NewNop().Sugar()

func Init(level string) {
	cfg := zap.NewProductionConfig()
	if parsed, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = parsed
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
