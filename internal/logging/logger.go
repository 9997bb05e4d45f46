package logging

import (
	"os"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]interface{}

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(newLogger(zapcore.AddSync(os.Stdout), zapcore.InfoLevel))
}

func newLogger(ws zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.MessageKey = "msg"
	enc.LevelKey = "level"
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), ws, level)
	return zap.New(core)
}

// SetOutput redirects log output, mostly for tests. A debug flag lowers the
// level to debug.
func SetOutput(ws zapcore.WriteSyncer, debug bool) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	current.Store(newLogger(ws, level))
}

// Logger exposes the underlying zap logger for libraries that take one.
func Logger() *zap.Logger { return current.Load() }

// Sync flushes buffered entries.
func Sync() { _ = current.Load().Sync() }

func toZap(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

// Debug logs a verbose message, dropped unless debug output is enabled.
func Debug(msg string, fields Fields) {
	current.Load().Debug(msg, toZap(fields)...)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	current.Load().Info(msg, toZap(fields)...)
}

// Warn logs a recoverable problem.
func Warn(msg string, fields Fields) {
	current.Load().Warn(msg, toZap(fields)...)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	zf := toZap(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	current.Load().Error(msg, zf...)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	zf := toZap(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l := current.Load()
	l.Error(msg, zf...)
	_ = l.Sync()
	os.Exit(1)
}
