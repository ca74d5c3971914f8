package repository

import (
	"context"
	"sync/atomic"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
)

// IDCanonicalizer приводит ID к форме, под которой хранилище возвращает участника.
// Реализуется хранилищами, принимающими несколько написаний одного ID.
type IDCanonicalizer interface {
	CanonicalID(id string) (string, error)
}

// CachedMemberRepository реализует MemberRepository с кешированием
type CachedMemberRepository struct {
	repo  MemberRepository
	cache MemberCache
	log   *logger.Logger

	// writes растет после каждой записи; список из БД не кешируется, если он сменился во время чтения
	writes atomic.Uint64
}

// NewCachedMemberRepository создает новый репозиторий с кешированием
func NewCachedMemberRepository(repo MemberRepository, cache MemberCache, log *logger.Logger) *CachedMemberRepository {
	return &CachedMemberRepository{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetAll возвращает список участников (сначала из кеша, потом из БД)
func (r *CachedMemberRepository) GetAll(ctx context.Context) ([]domain.Member, error) {
	cached, found, err := r.cache.GetCachedMemberList(ctx)
	if err != nil {
		r.log.Warnw("Error getting member list from cache", "error", err)
	}
	if found {
		return cached, nil
	}

	version := r.writes.Load()
	members, err := r.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if r.writes.Load() != version {
		return members, nil
	}
	if err := r.cache.CacheMemberList(ctx, members); err != nil {
		r.log.Warnw("Failed to cache member list", "error", err)
		return members, nil
	}
	// Запись между проверкой и Set могла не увидеть наш список
	if r.writes.Load() != version {
		r.invalidateList(ctx)
	}

	return members, nil
}

// GetByID получает участника по ID (сначала из кеша, потом из БД)
func (r *CachedMemberRepository) GetByID(ctx context.Context, id string) (domain.Member, error) {
	cached, err := r.cache.GetCachedMember(ctx, r.cacheID(id))
	if err != nil {
		r.log.Warnw("Error getting member from cache", "error", err, "id", id)
	}
	if cached != nil {
		return *cached, nil
	}

	member, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Member{}, err
	}

	if err := r.cache.CacheMember(ctx, member); err != nil {
		r.log.Warnw("Failed to cache member after fetching", "error", err, "id", id)
	}

	return member, nil
}

// Create сохраняет участника в БД и кеширует его
func (r *CachedMemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	created, err := r.repo.Create(ctx, member)
	if err != nil {
		return domain.Member{}, err
	}

	r.refresh(ctx, created)
	return created, nil
}

// UpdateDetails обновляет участника в БД и кеше
func (r *CachedMemberRepository) UpdateDetails(ctx context.Context, id string, details domain.MemberRequest) (domain.Member, error) {
	updated, err := r.repo.UpdateDetails(ctx, id, details)
	if err != nil {
		return domain.Member{}, err
	}

	r.refresh(ctx, updated)
	return updated, nil
}

// UpdatePayments обновляет платежи в БД и кеше
func (r *CachedMemberRepository) UpdatePayments(ctx context.Context, id string, payments []domain.Payment) (domain.Member, error) {
	updated, err := r.repo.UpdatePayments(ctx, id, payments)
	if err != nil {
		return domain.Member{}, err
	}

	r.refresh(ctx, updated)
	return updated, nil
}

// Delete удаляет участника из БД и кеша
func (r *CachedMemberRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.writes.Add(1)

	if err := r.cache.DeleteCachedMember(ctx, r.cacheID(id)); err != nil {
		r.log.Warnw("Failed to delete member from cache", "error", err, "id", id)
	}
	r.invalidateList(ctx)
	return nil
}

// cacheID ключ участника в кеше: канонический ID, если хранилище его знает
func (r *CachedMemberRepository) cacheID(id string) string {
	if c, ok := r.repo.(IDCanonicalizer); ok {
		if canonical, err := c.CanonicalID(id); err == nil {
			return canonical
		}
	}
	return id
}

func (r *CachedMemberRepository) refresh(ctx context.Context, member domain.Member) {
	r.writes.Add(1)
	if err := r.cache.CacheMember(ctx, member); err != nil {
		r.log.Warnw("Failed to update member in cache", "error", err, "id", member.ID)
	}
	r.invalidateList(ctx)
}

func (r *CachedMemberRepository) invalidateList(ctx context.Context) {
	if err := r.cache.InvalidateMemberList(ctx); err != nil {
		r.log.Warnw("Failed to invalidate member list cache", "error", err)
	}
}
