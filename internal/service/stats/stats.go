package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voxly-app/voxly/internal/cache"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
)

const defaultCacheTTL = time.Minute

// StatsService serves ranged usage aggregates. The underlying queries are the
// only heavy reads in the system, so results are cached briefly when a cache
// is configured. A nil cache disables caching.
type StatsService struct {
	statsRepo repository.StatsRepo
	cache     cache.Cache
	ttl       time.Duration
}

func NewService(statsRepo repository.StatsRepo, c cache.Cache) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		cache:     c,
		ttl:       defaultCacheTTL,
	}
}

func (s *StatsService) PostsPerUser(ctx context.Context, from time.Time, to time.Time) ([]models.UserPostCount, error) {
	key := cacheKey("posts-por-usuario", from, to)

	var cached []models.UserPostCount
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	counts, err := s.statsRepo.CountPostsByUser(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, counts)
	return counts, nil
}

func (s *StatsService) TotalComments(ctx context.Context, from time.Time, to time.Time) (int64, error) {
	key := cacheKey("total-comentarios", from, to)

	var cached int64
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	total, err := s.statsRepo.CountComments(ctx, from, to)
	if err != nil {
		return 0, err
	}

	s.toCache(ctx, key, total)
	return total, nil
}

func (s *StatsService) CommentsPerPost(ctx context.Context, from time.Time, to time.Time) ([]models.PostCommentCount, error) {
	key := cacheKey("comentarios-por-post", from, to)

	var cached []models.PostCommentCount
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	counts, err := s.statsRepo.CountCommentsByPost(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, counts)
	return counts, nil
}

func cacheKey(name string, from time.Time, to time.Time) string {
	return fmt.Sprintf("stats:%s:%d:%d", name, from.Unix(), to.Unix())
}

// fromCache fills out and reports success. Cache failures are
// treated as misses, never as errors.
func (s *StatsService) fromCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, out) == nil
}

func (s *StatsService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	// Best effort, the next reader recomputes on failure
	_ = s.cache.Set(ctx, key, raw, s.ttl)
}
