package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MemberLister источник списка участников для сэмплера
type MemberLister interface {
	GetAll(ctx context.Context) ([]domain.Member, error)
}

// RosterMetrics интерфейс для метрик состава зала
type RosterMetrics interface {
	Record(ctx context.Context)
	StartRecording(interval time.Duration)
	Stop()
}

type rosterMetrics struct {
	log          *logger.Logger
	store        MemberLister
	now          func() time.Time
	membersTotal prometheus.Gauge
	unpaidTotal  prometheus.Gauge
	goroutines   prometheus.Gauge
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewRosterMetrics создает метрики состава зала
func NewRosterMetrics(registry *prometheus.Registry, store MemberLister, log *logger.Logger) RosterMetrics {
	membersTotal := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "members_total",
			Help: "Current number of members",
		},
	)

	unpaidTotal := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "members_unpaid_current_month",
			Help: "Members whose fee for the current month is unpaid",
		},
	)

	goroutines := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "system_goroutines",
			Help: "Current number of goroutines",
		},
	)

	return &rosterMetrics{
		log:          log,
		store:        store,
		now:          time.Now,
		membersTotal: membersTotal,
		unpaidTotal:  unpaidTotal,
		goroutines:   goroutines,
		stopCh:       make(chan struct{}),
	}
}

// Record снимает текущие значения. Ошибка хранилища оставляет прежние значения.
func (m *rosterMetrics) Record(ctx context.Context) {
	m.goroutines.Set(float64(runtime.NumGoroutine()))

	members, err := m.store.GetAll(ctx)
	if err != nil {
		m.log.Warnw("Failed to sample roster metrics", "error", err)
		return
	}

	month := domain.MonthOf(m.now())
	unpaid := 0
	for _, member := range members {
		if !member.IsPaid(month) {
			unpaid++
		}
	}

	m.membersTotal.Set(float64(len(members)))
	m.unpaidTotal.Set(float64(unpaid))
}

// StartRecording начинает запись метрик с заданным интервалом
func (m *rosterMetrics) StartRecording(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				m.Record(ctx)
				cancel()
			case <-m.stopCh:
				return
			}
		}
	}()
	m.log.Info("Roster metrics recording started with interval %s", interval)
}

// Stop останавливает запись метрик
func (m *rosterMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.log.Info("Roster metrics recording stopped")
	})
}
