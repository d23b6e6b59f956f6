package contract

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.RWMutex
	logger   = zap.NewNop().Sugar()
)

// InitLogger builds the process-wide structured logger writing to stderr.
// Level is one of debug, info, warn, error. JSON selects the production encoder.
func InitLogger(level string, json bool) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	_ = logger.Sync()
	logger = built.Sugar()
	return nil
}

// Logger returns the structured logger. It discards everything until InitLogger is called.
func Logger() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SyncLogger flushes buffered log entries. Call it on shutdown.
func SyncLogger() {
	_ = Logger().Sync()
}

// RedactDSN hides the password portion of a MySQL or PostgreSQL connection string
// so it can be logged.
func RedactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	// PostgreSQL key/value form: password=secret
	fields := strings.Fields(dsn)
	redacted := false
	for i, f := range fields {
		if strings.HasPrefix(strings.ToLower(f), "password=") {
			fields[i] = "password=[REDACTED]"
			redacted = true
		}
	}
	if redacted {
		return strings.Join(fields, " ")
	}
	// MySQL form: user:secret@tcp(host)/db
	at := strings.Index(dsn, "@")
	colon := strings.Index(dsn, ":")
	if at > 0 && colon >= 0 && colon < at {
		return dsn[:colon+1] + "[REDACTED]" + dsn[at:]
	}
	return dsn
}
