// Package cliutil provides the structured logging used by cmd/v4apatch. None of it is reachable from
// internal/patch: the engine stays pure and the CLI is the only caller.
package cliutil

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.Logger the way kvit-s-kvit-coder's agent logger does,
// but writes to stderr rather than a file: patch application is a
// short-lived batch command, not a long-running process worth a log file.
type Logger struct {
	zap *zap.Logger
}

// NewLogger builds a Logger writing JSON (or, in development, a readable
// console encoding) to stderr at the given level.
func NewLogger(development bool, debug bool) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	return &Logger{zap: zap.New(core)}
}

// Sync flushes buffered log entries; callers should defer it from main.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// RunStarted logs the start of one process_patch invocation.
func (l *Logger) RunStarted(runID string, textBytes int) {
	l.zap.Info("run started",
		zap.String("run_id", runID),
		zap.Int("input_bytes", textBytes),
	)
}

// FuzzIncurred logs a single tolerated deviation the Context Matcher had to
// fall back on, at the fuzz cost it assessed.
func (l *Logger) FuzzIncurred(runID, path string, fuzz int) {
	l.zap.Debug("context matched with fuzz",
		zap.String("run_id", runID),
		zap.String("path", path),
		zap.Int("fuzz", fuzz),
	)
}

// RunSucceeded logs a completed, applied patch.
func (l *Logger) RunSucceeded(runID string, totalFuzz int) {
	l.zap.Info("run succeeded",
		zap.String("run_id", runID),
		zap.Int("total_fuzz", totalFuzz),
	)
}

// RunFailed logs a run that was rejected before (or instead of) applying.
func (l *Logger) RunFailed(runID string, err error) {
	l.zap.Error("run failed",
		zap.String("run_id", runID),
		zap.Error(err),
	)
}
