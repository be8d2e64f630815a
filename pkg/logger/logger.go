package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log is the global application logger. Initialized once in main before any
// module runs; handlers and services log through it directly. The no-op
// default keeps tests quiet.
var Log = zap.NewNop()

// InitLogger builds the zap logger according to the runtime mode.
func InitLogger(mode string) {
	var (
		l   *zap.Logger
		err error
	)

	if mode == "release" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	Log = l
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
