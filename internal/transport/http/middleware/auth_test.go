package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func schedulerTestHandler(secret string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return SchedulerAuth(secret)(next)
}

func TestSchedulerAuth_AcceptsHeaderToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jobs/market-movers", nil)
	req.Header.Set("X-Scheduler-Token", "s3cret")
	rec := httptest.NewRecorder()

	schedulerTestHandler("s3cret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSchedulerAuth_AcceptsBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jobs/market-movers", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()

	schedulerTestHandler("s3cret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSchedulerAuth_RejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jobs/market-movers", nil)
	rec := httptest.NewRecorder()

	schedulerTestHandler("s3cret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "scheduler credential")
}

func TestSchedulerAuth_RejectsWrongToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jobs/market-movers", nil)
	req.Header.Set("X-Scheduler-Token", "nope")
	rec := httptest.NewRecorder()

	schedulerTestHandler("s3cret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSchedulerAuth_EmptySecretRejectsEverything(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jobs/market-movers", nil)
	req.Header.Set("X-Scheduler-Token", "anything")
	rec := httptest.NewRecorder()

	schedulerTestHandler("").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
