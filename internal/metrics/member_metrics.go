package metrics

import (
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MemberMetrics интерфейс для метрик участников
type MemberMetrics interface {
	IncMemberCreated()
	IncMemberUpdated()
	IncMemberDeleted()
	IncPaymentMarked(month string, paid bool)
	AddRemindersDispatched(result string, count int)
}

type memberMetrics struct {
	log                 *logger.Logger
	membersChanged      *prometheus.CounterVec
	paymentsMarked      *prometheus.CounterVec
	remindersDispatched *prometheus.CounterVec
}

// NewMemberMetrics создает новые метрики участников
func NewMemberMetrics(registry *prometheus.Registry, log *logger.Logger) MemberMetrics {
	membersChanged := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "members_changes_total",
			Help: "The total number of member mutations by operation",
		},
		[]string{"operation"},
	)

	paymentsMarked := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "member_payments_marked_total",
			Help: "The total number of payment marks by month and resulting state",
		},
		[]string{"month", "state"},
	)

	remindersDispatched := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fee_reminders_dispatched_total",
			Help: "The total number of fee reminders by dispatch result",
		},
		[]string{"result"},
	)

	return &memberMetrics{
		log:                 log,
		membersChanged:      membersChanged,
		paymentsMarked:      paymentsMarked,
		remindersDispatched: remindersDispatched,
	}
}

// IncMemberCreated увеличивает счетчик созданных участников
func (m *memberMetrics) IncMemberCreated() {
	m.membersChanged.WithLabelValues("created").Inc()
}

// IncMemberUpdated увеличивает счетчик обновленных участников
func (m *memberMetrics) IncMemberUpdated() {
	m.membersChanged.WithLabelValues("updated").Inc()
}

// IncMemberDeleted увеличивает счетчик удаленных участников
func (m *memberMetrics) IncMemberDeleted() {
	m.membersChanged.WithLabelValues("deleted").Inc()
}

// IncPaymentMarked учитывает отметку оплаты
func (m *memberMetrics) IncPaymentMarked(month string, paid bool) {
	state := "unpaid"
	if paid {
		state = "paid"
	}
	m.paymentsMarked.WithLabelValues(month, state).Inc()
}

// AddRemindersDispatched учитывает отправленные напоминания
func (m *memberMetrics) AddRemindersDispatched(result string, count int) {
	m.remindersDispatched.WithLabelValues(result).Add(float64(count))
}
