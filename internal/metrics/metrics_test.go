package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type staticLister struct {
	members []domain.Member
	err     error
}

func (s staticLister) GetAll(ctx context.Context) ([]domain.Member, error) {
	return s.members, s.err
}

func memberPaidFor(months ...string) domain.Member {
	m := domain.NewMember(domain.MemberRequest{MemberID: "M", Name: "N", Phone: "P", Email: "E"})
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, month := range months {
		m.PaymentFor(month).MarkPaid(now)
	}
	return m
}

func TestMemberMetrics(t *testing.T) {
	m := NewMemberMetrics(prometheus.NewRegistry(), logger.NewNop()).(*memberMetrics)

	m.IncMemberCreated()
	m.IncMemberCreated()
	m.IncMemberDeleted()
	m.IncPaymentMarked("March", true)
	m.IncPaymentMarked("March", false)
	m.AddRemindersDispatched("sent", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.membersChanged.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.membersChanged.WithLabelValues("deleted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.membersChanged.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsMarked.WithLabelValues("March", "paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsMarked.WithLabelValues("March", "unpaid")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.remindersDispatched.WithLabelValues("sent")))
}

func TestRosterMetrics_Record(t *testing.T) {
	store := staticLister{members: []domain.Member{
		memberPaidFor("March"),
		memberPaidFor("February"),
		memberPaidFor(),
	}}

	m := NewRosterMetrics(prometheus.NewRegistry(), store, logger.NewNop()).(*rosterMetrics)
	m.now = func() time.Time { return time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC) }

	m.Record(context.Background())

	assert.Equal(t, 3.0, testutil.ToFloat64(m.membersTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.unpaidTotal))
	assert.Greater(t, testutil.ToFloat64(m.goroutines), 0.0)
}

func TestRosterMetrics_RecordKeepsValuesOnError(t *testing.T) {
	m := NewRosterMetrics(prometheus.NewRegistry(), staticLister{err: errors.New("down")}, logger.NewNop()).(*rosterMetrics)
	m.membersTotal.Set(7)

	m.Record(context.Background())

	assert.Equal(t, 7.0, testutil.ToFloat64(m.membersTotal))
}

func TestRosterMetrics_StopTwice(t *testing.T) {
	m := NewRosterMetrics(prometheus.NewRegistry(), staticLister{}, logger.NewNop())
	m.StartRecording(time.Hour)

	assert.NotPanics(t, func() {
		m.Stop()
		m.Stop()
	})
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewHTTPMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/members/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/members/1", "/api/members/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/members/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}
