// Package reminder описывает напоминания об оплате и способы их отправки.
package reminder

import (
	"context"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
)

// Reminder напоминание одному участнику о неоплаченном месяце
type Reminder struct {
	MemberID   string `json:"memberId"`   // _id участника
	MemberCode string `json:"memberCode"` // memberId участника
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Month      string `json:"month"`
}

// ForMember строит напоминание для участника и месяца
func ForMember(m domain.Member, month string) Reminder {
	return Reminder{
		MemberID:   m.ID,
		MemberCode: m.MemberID,
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
		Month:      month,
	}
}

// Dispatcher отправляет пачку напоминаний целиком
type Dispatcher interface {
	Dispatch(ctx context.Context, reminders []Reminder) error
}

// DispatcherFunc адаптер обычной функции к Dispatcher
type DispatcherFunc func(ctx context.Context, reminders []Reminder) error

// Dispatch вызывает f(ctx, reminders)
func (f DispatcherFunc) Dispatch(ctx context.Context, reminders []Reminder) error {
	return f(ctx, reminders)
}

// LogDispatcher только пишет напоминания в лог
type LogDispatcher struct {
	log *logger.Logger
}

// NewLogDispatcher создает диспетчер, пишущий в лог
func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

// Dispatch логирует каждое напоминание
func (d *LogDispatcher) Dispatch(ctx context.Context, reminders []Reminder) error {
	for _, r := range reminders {
		d.log.Infow("Fee reminder",
			"memberId", r.MemberID,
			"memberCode", r.MemberCode,
			"name", r.Name,
			"email", r.Email,
			"phone", r.Phone,
			"month", r.Month,
		)
	}
	d.log.Infow("Fee reminders logged", "count", len(reminders))
	return nil
}
