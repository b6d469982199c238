package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

var _ domain.GoalRepository = (*CachedGoalRepository)(nil)

// CachedGoalRepository caches the owner's goal list in redis. Every read
// path of the aggregator starts with that list, so this is the one query
// worth fronting; everything else passes through.
type CachedGoalRepository struct {
	next  domain.GoalRepository
	cache *redis.Client
}

func NewCachedGoalRepository(next domain.GoalRepository, cache *redis.Client) *CachedGoalRepository {
	return &CachedGoalRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedGoalRepository) cacheKey(ownerID string) string {
	return fmt.Sprintf("goals:%s", ownerID)
}

func (r *CachedGoalRepository) invalidate(ctx context.Context, ownerID string) {
	if err := r.cache.Del(ctx, r.cacheKey(ownerID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for owner %s: %v", ownerID, err)
	}
}

func (r *CachedGoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	key := r.cacheKey(ownerID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var goals []*domain.Goal
		if err := json.Unmarshal([]byte(val), &goals); err == nil {
			return goals, nil
		}

		log.Printf("[CACHE] Corrupted data for owner %s, cleaning up key", ownerID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	goals, err := r.next.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(goals); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return goals, nil
}

func (r *CachedGoalRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Goal, error) {
	return r.next.GetByID(ctx, ownerID, id)
}

func (r *CachedGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	if err := r.next.Create(ctx, goal); err != nil {
		return err
	}
	r.invalidate(ctx, goal.OwnerID)
	return nil
}

func (r *CachedGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if err := r.next.Update(ctx, goal); err != nil {
		return err
	}
	r.invalidate(ctx, goal.OwnerID)
	return nil
}

func (r *CachedGoalRepository) UpdateTarget(ctx context.Context, ownerID, id string, target int) error {
	if err := r.next.UpdateTarget(ctx, ownerID, id, target); err != nil {
		return err
	}
	r.invalidate(ctx, ownerID)
	return nil
}

func (r *CachedGoalRepository) Delete(ctx context.Context, ownerID, id string) error {
	if err := r.next.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	r.invalidate(ctx, ownerID)
	return nil
}
