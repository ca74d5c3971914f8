package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/metrics"
	"github.com/Dhoini/gym-fee-tracker/internal/reminder"
	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/internal/service"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2025, time.March, 15, 9, 30, 0, 0, time.UTC)

// brokenRepo читает из памяти, но любая запись и список падают
type brokenRepo struct {
	repository.MemberRepository
}

var errConnReset = errors.New("connection reset")

func (brokenRepo) GetAll(ctx context.Context) ([]domain.Member, error) {
	return nil, errConnReset
}

func (brokenRepo) UpdateDetails(ctx context.Context, id string, details domain.MemberRequest) (domain.Member, error) {
	return domain.Member{}, errConnReset
}

func (brokenRepo) UpdatePayments(ctx context.Context, id string, payments []domain.Payment) (domain.Member, error) {
	return domain.Member{}, errConnReset
}

func (brokenRepo) Delete(ctx context.Context, id string) error {
	return errConnReset
}

func newBrokenRepo(t *testing.T) (brokenRepo, string) {
	t.Helper()
	inner := repository.NewInMemoryMemberRepository(logger.NewNop())
	created, err := inner.Create(context.Background(), domain.NewMember(domain.MemberRequest{MemberID: "M1", Name: "Alex", Phone: "555", Email: "a@x.com"}))
	require.NoError(t, err)
	return brokenRepo{MemberRepository: inner}, created.ID
}

func newMemberRouter(t *testing.T, repo repository.MemberRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	m := metrics.NewMemberMetrics(prometheus.NewRegistry(), log)
	h := NewMemberHandler(service.NewMemberService(repo, m, log, service.WithClock(service.FixedClock(handlerNow))), log)

	r := gin.New()
	r.GET("/api/members", h.GetMembers)
	r.POST("/api/members", h.CreateMember)
	r.GET("/api/members/:id", h.GetMember)
	r.PUT("/api/members/:id", h.UpdateMember)
	r.PUT("/api/members/:id/payment", h.UpdatePayment)
	r.DELETE("/api/members/:id", h.DeleteMember)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var alexBody = map[string]string{"memberId": "M1", "name": "Alex", "phone": "555", "email": "a@x.com"}

func TestMemberHandler_CreateAndList(t *testing.T) {
	r := newMemberRouter(t, repository.NewInMemoryMemberRepository(logger.NewNop()))

	w := doJSON(t, r, http.MethodGet, "/api/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/members", alexBody)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[domain.Member](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "M1", created.MemberID)
	assert.Len(t, created.Payments, 12)

	raw := decode[map[string]any](t, w)
	assert.Contains(t, raw, "_id")
	payments := raw["payments"].([]any)
	assert.Equal(t, map[string]any{"month": "January", "paid": false, "date": nil}, payments[0])

	w = doJSON(t, r, http.MethodGet, "/api/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Member](t, w), 1)

	w = doJSON(t, r, http.MethodGet, "/api/members/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[domain.Member](t, w))
}

func TestMemberHandler_CreateValidation(t *testing.T) {
	r := newMemberRouter(t, repository.NewInMemoryMemberRepository(logger.NewNop()))

	w := doJSON(t, r, http.MethodPost, "/api/members", map[string]string{"memberId": "M1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgAddFailed, decode[map[string]any](t, w)["error"])

	blank := map[string]string{"memberId": "M1", "name": "   ", "phone": "555", "email": "a@x.com"}
	w = doJSON(t, r, http.MethodPost, "/api/members", blank)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Failed to add member","details":["name"]}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/members", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = doJSON(t, r, http.MethodGet, "/api/members", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestMemberHandler_Update(t *testing.T) {
	r := newMemberRouter(t, repository.NewInMemoryMemberRepository(logger.NewNop()))
	created := decode[domain.Member](t, doJSON(t, r, http.MethodPost, "/api/members", alexBody))

	body := map[string]string{"memberId": "M9", "name": "Alex K", "phone": "556", "email": "k@x.com"}
	w := doJSON(t, r, http.MethodPut, "/api/members/"+created.ID, body)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[domain.Member](t, w)
	assert.Equal(t, "Alex K", updated.Name)
	assert.Equal(t, "M9", updated.MemberID)
	assert.Equal(t, created.Payments, updated.Payments)

	w = doJSON(t, r, http.MethodPut, "/api/members/does-not-exist", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Member not found"}`, w.Body.String())
}

func TestMemberHandler_UpdatePayment(t *testing.T) {
	r := newMemberRouter(t, repository.NewInMemoryMemberRepository(logger.NewNop()))
	created := decode[domain.Member](t, doJSON(t, r, http.MethodPost, "/api/members", alexBody))
	path := "/api/members/" + created.ID + "/payment"

	w := doJSON(t, r, http.MethodPut, path, map[string]any{"month": "March"})
	require.Equal(t, http.StatusOK, w.Code)
	member := decode[domain.Member](t, w)
	require.True(t, member.IsPaid("March"))
	assert.True(t, member.PaymentFor("March").Date.Equal(handlerNow))

	w = doJSON(t, r, http.MethodPut, path, map[string]any{"month": "March", "toggle": true})
	require.Equal(t, http.StatusOK, w.Code)
	member = decode[domain.Member](t, w)
	assert.False(t, member.IsPaid("March"))
	assert.Nil(t, member.PaymentFor("March").Date)

	w = doJSON(t, r, http.MethodPut, path, map[string]any{"month": "Smarch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgPaymentFailed, decode[map[string]any](t, w)["error"])

	w = doJSON(t, r, http.MethodPut, path, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/members/missing/payment", map[string]any{"month": "March"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMemberHandler_Delete(t *testing.T) {
	r := newMemberRouter(t, repository.NewInMemoryMemberRepository(logger.NewNop()))
	created := decode[domain.Member](t, doJSON(t, r, http.MethodPost, "/api/members", alexBody))

	w := doJSON(t, r, http.MethodDelete, "/api/members/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Member deleted successfully"}`, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/members/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/members/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMemberHandler_StoreFailure(t *testing.T) {
	repo, id := newBrokenRepo(t)
	r := newMemberRouter(t, repo)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   string
	}{
		{"list", http.MethodGet, "/api/members", nil, `{"error":"Failed to fetch members"}`},
		{"update", http.MethodPut, "/api/members/" + id, alexBody, `{"error":"Failed to update member"}`},
		{"payment", http.MethodPut, "/api/members/" + id + "/payment", map[string]any{"month": "March"}, `{"error":"Failed to update payment"}`},
		{"delete", http.MethodDelete, "/api/members/" + id, nil, `{"error":"Failed to delete member"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}

	w := doJSON(t, r, http.MethodGet, "/api/members/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReminderHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	repo := repository.NewInMemoryMemberRepository(log)
	_, err := repo.Create(context.Background(), domain.NewMember(domain.MemberRequest{MemberID: "M1", Name: "Alex", Phone: "555", Email: "a@x.com"}))
	require.NoError(t, err)
	m := metrics.NewMemberMetrics(prometheus.NewRegistry(), log)

	t.Run("success", func(t *testing.T) {
		svc := service.NewReminderService(repo, reminder.NewLogDispatcher(log), m, log, service.FixedClock(handlerNow))
		r := gin.New()
		r.POST("/send-reminders", NewReminderHandler(svc, log).SendReminders)

		w := doJSON(t, r, http.MethodPost, "/send-reminders", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Reminders sent successfully","sent":1}`, w.Body.String())
	})

	t.Run("dispatcher failure", func(t *testing.T) {
		failing := reminder.DispatcherFunc(func(ctx context.Context, reminders []reminder.Reminder) error {
			return errors.New("smtp unavailable")
		})
		svc := service.NewReminderService(repo, failing, m, log, service.FixedClock(handlerNow))
		r := gin.New()
		r.POST("/send-reminders", NewReminderHandler(svc, log).SendReminders)

		w := doJSON(t, r, http.MethodPost, "/send-reminders", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Failed to send reminders","details":"smtp unavailable"}`, w.Body.String())
	})
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", HealthCheck)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "OK", body["status"])
	_, err := time.Parse(time.RFC3339, body["time"].(string))
	assert.NoError(t, err)
}
