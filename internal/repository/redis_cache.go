package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// Префиксы ключей для различных типов данных
	memberKeyPrefix = "member:"
	memberListKey   = "members:all"

	// TTL для кэша
	defaultCacheTTL = 15 * time.Minute
	// Список меняется при любой записи, поэтому живет меньше
	maxListTTL = time.Minute
)

// MemberCache кеш участников, используемый CachedMemberRepository
type MemberCache interface {
	CacheMember(ctx context.Context, member domain.Member) error
	GetCachedMember(ctx context.Context, id string) (*domain.Member, error)
	DeleteCachedMember(ctx context.Context, id string) error
	CacheMemberList(ctx context.Context, members []domain.Member) error
	GetCachedMemberList(ctx context.Context) ([]domain.Member, bool, error)
	InvalidateMemberList(ctx context.Context) error
}

// RedisMemberCache реализует кеширование участников с использованием Redis
type RedisMemberCache struct {
	client  *redis.Client
	ttl     time.Duration
	listTTL time.Duration
	log     *logger.Logger
}

// NewRedisMemberCache создает кеш и проверяет соединение с Redis
func NewRedisMemberCache(ctx context.Context, addr, password string, db int, ttl time.Duration, log *logger.Logger) (*RedisMemberCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Errorw("Failed to connect to Redis", "error", err, "addr", addr)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	listTTL := ttl
	if listTTL > maxListTTL {
		listTTL = maxListTTL
	}

	log.Infow("Connected to Redis successfully", "addr", addr, "ttl", ttl, "list_ttl", listTTL)
	return &RedisMemberCache{
		client:  client,
		ttl:     ttl,
		listTTL: listTTL,
		log:     log,
	}, nil
}

// Close закрывает соединение с Redis
func (r *RedisMemberCache) Close() error {
	return r.client.Close()
}

func memberKey(id string) string {
	return memberKeyPrefix + id
}

// CacheMember кеширует участника
func (r *RedisMemberCache) CacheMember(ctx context.Context, member domain.Member) error {
	data, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}

	if err := r.client.Set(ctx, memberKey(member.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache member: %w", err)
	}

	r.log.Debugw("Member cached", "id", member.ID)
	return nil
}

// GetCachedMember получает участника из кеша. Промах возвращает nil, nil.
func (r *RedisMemberCache) GetCachedMember(ctx context.Context, id string) (*domain.Member, error) {
	data, err := r.client.Get(ctx, memberKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member from cache: %w", err)
	}

	var member domain.Member
	if err := json.Unmarshal(data, &member); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached member: %w", err)
	}

	return &member, nil
}

// DeleteCachedMember удаляет участника из кеша
func (r *RedisMemberCache) DeleteCachedMember(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, memberKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete member from cache: %w", err)
	}
	return nil
}

// CacheMemberList кеширует полный список участников
func (r *RedisMemberCache) CacheMemberList(ctx context.Context, members []domain.Member) error {
	data, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to marshal member list: %w", err)
	}

	if err := r.client.Set(ctx, memberListKey, data, r.listTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache member list: %w", err)
	}

	r.log.Debugw("Member list cached", "count", len(members))
	return nil
}

// GetCachedMemberList получает список из кеша. Пустой список тоже считается попаданием.
func (r *RedisMemberCache) GetCachedMemberList(ctx context.Context) ([]domain.Member, bool, error) {
	data, err := r.client.Get(ctx, memberListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get member list from cache: %w", err)
	}

	var members []domain.Member
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached member list: %w", err)
	}

	return members, true, nil
}

// InvalidateMemberList удаляет кеш списка участников
func (r *RedisMemberCache) InvalidateMemberList(ctx context.Context) error {
	if err := r.client.Del(ctx, memberListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate member list cache: %w", err)
	}
	return nil
}
