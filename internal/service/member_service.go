package service

import (
	"context"
	"fmt"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/metrics"
	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
)

// MemberService интерфейс сервиса для работы с участниками
type MemberService interface {
	List(ctx context.Context) ([]domain.Member, error)
	Get(ctx context.Context, id string) (domain.Member, error)
	Create(ctx context.Context, req domain.MemberRequest) (domain.Member, error)
	UpdateDetails(ctx context.Context, id string, req domain.MemberRequest) (domain.Member, error)
	MarkPayment(ctx context.Context, id string, req domain.PaymentRequest) (domain.Member, error)
	Delete(ctx context.Context, id string) error
}

// Option настраивает сервис
type Option func(*memberService)

// WithClock подменяет источник времени
func WithClock(clock Clock) Option {
	return func(s *memberService) {
		s.clock = clock
	}
}

type memberService struct {
	repo    repository.MemberRepository
	metrics metrics.MemberMetrics
	clock   Clock
	log     *logger.Logger
}

// NewMemberService создает новый сервис для работы с участниками
func NewMemberService(repo repository.MemberRepository, m metrics.MemberMetrics, log *logger.Logger, opts ...Option) MemberService {
	s := &memberService{
		repo:    repo,
		metrics: m,
		clock:   systemClock{},
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memberService) List(ctx context.Context) ([]domain.Member, error) {
	s.log.Debug("Getting all members")
	return s.repo.GetAll(ctx)
}

func (s *memberService) Get(ctx context.Context, id string) (domain.Member, error) {
	s.log.Debug("Getting member by ID: %s", id)
	return s.repo.GetByID(ctx, id)
}

func (s *memberService) Create(ctx context.Context, req domain.MemberRequest) (domain.Member, error) {
	if err := req.Validate(); err != nil {
		s.log.Warn("Invalid member request: %v", err)
		return domain.Member{}, err
	}

	member, err := s.repo.Create(ctx, domain.NewMember(req))
	if err != nil {
		return domain.Member{}, err
	}

	s.metrics.IncMemberCreated()
	s.log.Infow("Member created", "id", member.ID, "memberId", member.MemberID)
	return member, nil
}

func (s *memberService) UpdateDetails(ctx context.Context, id string, req domain.MemberRequest) (domain.Member, error) {
	if err := req.Validate(); err != nil {
		s.log.Warn("Invalid member update for %s: %v", id, err)
		return domain.Member{}, err
	}

	member, err := s.repo.UpdateDetails(ctx, id, req)
	if err != nil {
		return domain.Member{}, err
	}

	s.metrics.IncMemberUpdated()
	s.log.Infow("Member updated", "id", id)
	return member, nil
}

func (s *memberService) MarkPayment(ctx context.Context, id string, req domain.PaymentRequest) (domain.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Member{}, err
	}

	if err := member.ApplyPayment(req, s.clock.Now()); err != nil {
		s.log.Warn("Rejected payment mark for %s: %v", id, err)
		return domain.Member{}, err
	}

	updated, err := s.repo.UpdatePayments(ctx, id, member.Payments)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to store payments: %w", err)
	}

	paid := updated.IsPaid(req.Month)
	s.metrics.IncPaymentMarked(req.Month, paid)
	s.log.Infow("Payment marked", "id", id, "month", req.Month, "paid", paid, "toggle", req.Toggle)
	return updated, nil
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.IncMemberDeleted()
	s.log.Infow("Member deleted", "id", id)
	return nil
}
