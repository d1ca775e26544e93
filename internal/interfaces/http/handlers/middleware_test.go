package handlers_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/mrsa/internal/domain/service/mocks"
	"github.com/turtacn/mrsa/internal/interfaces/http/handlers"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/logger"
)

type logEntry struct {
	level  string
	msg    string
	fields logger.Fields
}

type entrySink struct {
	mu      sync.Mutex
	entries []logEntry
}

// recordingLogger keeps every entry, merged with the fields it was scoped with.
type recordingLogger struct {
	sink   *entrySink
	fields logger.Fields
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{sink: &entrySink{}, fields: logger.Fields{}}
}

func (l *recordingLogger) log(level, msg string, fields ...logger.Fields) {
	merged := logger.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, logEntry{level, msg, merged})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, fields ...logger.Fields) {
	l.log("debug", msg, fields...)
}

func (l *recordingLogger) Info(_ context.Context, msg string, fields ...logger.Fields) {
	l.log("info", msg, fields...)
}

func (l *recordingLogger) Warn(_ context.Context, msg string, fields ...logger.Fields) {
	l.log("warn", msg, fields...)
}

func (l *recordingLogger) Error(_ context.Context, msg string, _ error, fields ...logger.Fields) {
	l.log("error", msg, fields...)
}

func (l *recordingLogger) Fatal(_ context.Context, msg string, _ error, fields ...logger.Fields) {
	l.log("fatal", msg, fields...)
}

func (l *recordingLogger) WithFields(fields logger.Fields) logger.Logger {
	merged := logger.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{sink: l.sink, fields: merged}
}

func (l *recordingLogger) ForContext(ctx context.Context) logger.Logger {
	if scoped, ok := ctx.Value(constants.ContextKeyLogger).(logger.Logger); ok {
		return scoped
	}
	return l
}

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	for _, e := range l.sink.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func TestLoggingMiddleware_ScopesHandlerLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newRecordingLogger()
	svc := new(mocks.MockKeyManagementService)
	svc.On("GenerateKey", mock.Anything, "").Return(nil, stderrors.New("disk full")).Once()

	h := handlers.NewKeyHandler(svc, log)
	r := gin.New()
	r.Use(handlers.RecoveryMiddleware(log), handlers.RequestIDMiddleware(), handlers.LoggingMiddleware(log))
	r.POST("/v1/keys", h.GenerateKey)

	w := serve(r, http.MethodPost, "/v1/keys", `{}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	failed, ok := log.find("Key generation failed")
	require.True(t, ok)
	assert.Equal(t, "error", failed.level)
	assert.Equal(t, "/v1/keys", failed.fields["route"])
	assert.Equal(t, http.MethodPost, failed.fields["method"])

	done, ok := log.find("Request processed")
	require.True(t, ok)
	assert.Equal(t, "/v1/keys", done.fields["route"])
	assert.Equal(t, http.StatusInternalServerError, done.fields["status"])
}

func TestRecoveryMiddleware_UsesScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := newRecordingLogger()

	r := gin.New()
	r.Use(handlers.RecoveryMiddleware(log), handlers.RequestIDMiddleware(), handlers.LoggingMiddleware(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	entry, ok := log.find("Panic recovered")
	require.True(t, ok)
	assert.Equal(t, "/panic", entry.fields["route"])
	assert.Equal(t, "boom", entry.fields["panic"])
}
