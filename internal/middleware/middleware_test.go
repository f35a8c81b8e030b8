package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/meetbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMessenger struct {
	sent []models.OutgoingMessage
}

func (m *captureMessenger) Send(_ context.Context, msg models.OutgoingMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdminOnly(t *testing.T) {
	m := &captureMessenger{}
	admins := NewAdmins([]int64{1, 2})
	calls := 0
	next := func(context.Context, *models.BotRequest) { calls++ }
	h := AdminOnly(admins, m, discardLogger())(next)

	h(context.Background(), &models.BotRequest{ChatID: 10, From: models.User{ID: 2}})
	assert.Equal(t, 1, calls)
	assert.Empty(t, m.sent)

	h(context.Background(), &models.BotRequest{ChatID: 10, From: models.User{ID: 3}})
	assert.Equal(t, 1, calls)
	require.Len(t, m.sent, 1)
	assert.Equal(t, adminOnlyMessage, m.sent[0].Text)
	assert.Equal(t, int64(10), m.sent[0].ChatID)
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(func(context.Context, *models.BotRequest) {
		panic("boom")
	})
	assert.NotPanics(t, func() {
		h(context.Background(), &models.BotRequest{ChatID: 1})
	})
}

func TestWebhookSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hook/:secret", WebhookSecret("s3cret"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		path   string
		header string
		status int
	}{
		{"/hook/s3cret", "", http.StatusOK},
		{"/hook/s3cret", "s3cret", http.StatusOK},
		{"/hook/s3cret", "wrong", http.StatusUnauthorized},
		{"/hook/guess", "", http.StatusUnauthorized},
		{"/hook/guess", "s3cret", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, tc.path, nil)
		if tc.header != "" {
			req.Header.Set(telegramSecretHeader, tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "%s header=%q", tc.path, tc.header)
	}
}

func TestRateLimiter(t *testing.T) {
	_, err := RateLimiter("lots")
	assert.Error(t, err)

	limit, err := RateLimiter("2-M")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/events", limit, func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, seen, 36, "oversized ids are replaced with a uuid")

	assert.Empty(t, RequestIDFrom(context.Background()))
}
