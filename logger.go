package hbridge

import (
	"log"
	"net/http"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	// LogHandlerError reports an error from a handler that was not an [*Error]. Such errors are defects
	// in the handler and are answered with a 500.
	LogHandlerError(r *http.Request, err error)
	// LogFlushError reports a failure to write the final response to the underlying connection.
	LogFlushError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogHandlerError(r *http.Request, err error) {
	l.Logger.Printf("hbridge: internal error, please report: %s %s: %+v", r.Method, r.URL.Path, err)
}

func (l stdLogger) LogFlushError(err error) {
	l.Logger.Printf("hbridge: error while writing response: %s", err)
}

// NewStdLogger returns a Logger that prints through the standard library logger.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogHandlerError(r *http.Request, err error) {
	l.Logger.Error("internal error, please report",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err))
}

func (l zapLogger) LogFlushError(err error) {
	l.Logger.Error("error while writing response", zap.Error(err))
}

// NewZapLogger returns a Logger that reports through zap.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("hbridge")}
}

type TestLogger struct {
	tb testing.TB

	NumLogHandlerError int64
	NumLogFlushError   int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogHandlerError(r *http.Request, err error) {
	atomic.AddInt64(&l.NumLogHandlerError, 1)
	l.tb.Logf("hbridge: internal error, please report: %s %s: %s", r.Method, r.URL.Path, err)
}

func (l *TestLogger) LogFlushError(err error) {
	atomic.AddInt64(&l.NumLogFlushError, 1)
	l.tb.Logf("hbridge: error while writing response: %s", err)
}

// HandlerErrors returns how often LogHandlerError was called.
func (l *TestLogger) HandlerErrors() int64 { return atomic.LoadInt64(&l.NumLogHandlerError) }

var _ Logger = &TestLogger{}
