package service

import (
	"context"
	"fmt"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/metrics"
	"github.com/Dhoini/gym-fee-tracker/internal/reminder"
	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
)

// ReminderService интерфейс сервиса напоминаний
type ReminderService interface {
	SendReminders(ctx context.Context) (int, error)
}

type reminderService struct {
	repo       repository.MemberRepository
	dispatcher reminder.Dispatcher
	metrics    metrics.MemberMetrics
	clock      Clock
	log        *logger.Logger
}

// NewReminderService создает сервис напоминаний
func NewReminderService(repo repository.MemberRepository, dispatcher reminder.Dispatcher, m metrics.MemberMetrics, log *logger.Logger, clock Clock) ReminderService {
	if clock == nil {
		clock = systemClock{}
	}
	return &reminderService{
		repo:       repo,
		dispatcher: dispatcher,
		metrics:    m,
		clock:      clock,
		log:        log,
	}
}

// SendReminders отправляет одно напоминание каждому, кто не оплатил текущий месяц.
// Диспетчер вызывается один раз; любая ошибка возвращается целиком.
func (s *reminderService) SendReminders(ctx context.Context) (int, error) {
	members, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load members: %w", err)
	}

	month := domain.MonthOf(s.clock.Now())
	reminders := make([]reminder.Reminder, 0, len(members))
	for _, m := range members {
		if !m.IsPaid(month) {
			reminders = append(reminders, reminder.ForMember(m, month))
		}
	}

	if err := s.dispatcher.Dispatch(ctx, reminders); err != nil {
		s.metrics.AddRemindersDispatched("failed", len(reminders))
		return 0, err
	}

	s.metrics.AddRemindersDispatched("sent", len(reminders))
	s.log.Infow("Reminders sent", "month", month, "count", len(reminders))
	return len(reminders), nil
}
