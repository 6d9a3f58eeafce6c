// Package logx wraps zap the way the induction engine's teacher codebase
// wraps its own logger: a handful of *f methods plus a With() that carries
// structured fields into every child call, injected rather than global.
package logx

import (
	"os"

	"go.uber.org/zap"
)

// Logger is a thin, structured facade over zap.SugaredLogger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds the default process logger. Development builds (RDS_ENV=dev)
// get human-readable console output; everything else gets JSON.
func New() *Logger {
	var zl *zap.Logger
	var err error
	if os.Getenv("RDS_ENV") == "dev" {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{sugar: zl.Sugar()}
}

// Nop returns a logger that discards everything, used by tests that don't
// care about log output.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// With returns a child logger carrying the given key/value pairs on every
// subsequent call, e.g. l.With("runID", 7, "component", "induction").
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Infof(template string, args ...interface{})  { l.sugar.Infof(template, args...) }
func (l *Logger) Warnf(template string, args ...interface{})  { l.sugar.Warnf(template, args...) }
func (l *Logger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }
func (l *Logger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }

// Sync flushes any buffered log entries; call before process exit.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
