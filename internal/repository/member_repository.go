package repository

import (
	"context"
	"sync"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/google/uuid"
)

// MemberRepository интерфейс для работы с участниками
type MemberRepository interface {
	GetAll(ctx context.Context) ([]domain.Member, error)
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Create(ctx context.Context, member domain.Member) (domain.Member, error)
	UpdateDetails(ctx context.Context, id string, details domain.MemberRequest) (domain.Member, error)
	UpdatePayments(ctx context.Context, id string, payments []domain.Payment) (domain.Member, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryMemberRepository реализация репозитория участников в памяти
type InMemoryMemberRepository struct {
	members map[string]domain.Member
	order   []string
	mutex   sync.RWMutex
	log     *logger.Logger
}

// NewInMemoryMemberRepository создает новый репозиторий участников в памяти
func NewInMemoryMemberRepository(log *logger.Logger) *InMemoryMemberRepository {
	return &InMemoryMemberRepository{
		members: make(map[string]domain.Member),
		log:     log,
	}
}

// GetAll возвращает всех участников в порядке добавления
func (r *InMemoryMemberRepository) GetAll(ctx context.Context) ([]domain.Member, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	members := make([]domain.Member, 0, len(r.order))
	for _, id := range r.order {
		members = append(members, r.members[id].Clone())
	}

	return members, nil
}

// GetByID возвращает участника по ID
func (r *InMemoryMemberRepository) GetByID(ctx context.Context, id string) (domain.Member, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	member, exists := r.members[id]
	if !exists {
		return domain.Member{}, ErrNotFound
	}

	return member.Clone(), nil
}

// Create сохраняет участника и назначает ему ID
func (r *InMemoryMemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	member.ID = uuid.NewString()
	r.members[member.ID] = member.Clone()
	r.order = append(r.order, member.ID)

	r.log.Debugw("Member stored in memory", "id", member.ID, "memberId", member.MemberID)
	return member, nil
}

// UpdateDetails перезаписывает контактные поля участника
func (r *InMemoryMemberRepository) UpdateDetails(ctx context.Context, id string, details domain.MemberRequest) (domain.Member, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	member, exists := r.members[id]
	if !exists {
		return domain.Member{}, ErrNotFound
	}

	member.ApplyDetails(details)
	r.members[id] = member

	return member.Clone(), nil
}

// UpdatePayments заменяет график платежей участника
func (r *InMemoryMemberRepository) UpdatePayments(ctx context.Context, id string, payments []domain.Payment) (domain.Member, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	member, exists := r.members[id]
	if !exists {
		return domain.Member{}, ErrNotFound
	}

	member.Payments = domain.Member{Payments: payments}.Clone().Payments
	r.members[id] = member

	return member.Clone(), nil
}

// Delete удаляет участника
func (r *InMemoryMemberRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.members[id]; !exists {
		return ErrNotFound
	}

	delete(r.members, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}
