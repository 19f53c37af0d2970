package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"appointment-booking/internal/core/cache"
	"appointment-booking/internal/domain"
)

var errUserAbsent = errors.New("user absent")

// CachedUserRepo 在 FindByID 前挂一层 redis；查不到的结果不缓存
type CachedUserRepo struct {
	next  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedUserRepo(next domain.UserRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedUserRepo {
	return &CachedUserRepo{next: next, cache: c, ttl: ttl, log: l}
}

func userKey(id uint) string { return fmt.Sprintf("user:%d", id) }

func (r *CachedUserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.next.Create(ctx, u)
}

func (r *CachedUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	u, err := cache.GetOrLoadJSON(r.cache, ctx, userKey(id), r.ttl, func(ctx context.Context) (*domain.User, error) {
		u, err := r.next.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, errUserAbsent
		}
		return u, nil
	})
	if errors.Is(err, errUserAbsent) {
		return nil, nil
	}
	return u, err
}

func (r *CachedUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *CachedUserRepo) Delete(ctx context.Context, id uint) (int64, error) {
	n, err := r.next.Delete(ctx, id)
	if err != nil {
		return n, err
	}
	if e := r.cache.Delete(ctx, userKey(id)); e != nil {
		r.log.Warn("user cache invalidate failed", zap.Uint("user_id", id), zap.Error(e))
	}
	return n, nil
}
