package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingMiddlewareSetsHeaderBeforeWrite(t *testing.T) {
	h := TimingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `^\d+\.\d{2}ms$`, rec.Header().Get("X-Process-Time"))
}

func TestRateLimitMiddleware(t *testing.T) {
	// burst = 2 with a slow refill
	h := RateLimitMiddleware(4, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	request := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, request("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, request("10.0.0.1:1001").Code)

	limited := request("10.0.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "3600", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, request("10.0.0.2:1000").Code, "limits are per IP")
}
