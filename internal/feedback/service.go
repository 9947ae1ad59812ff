package feedback

import (
	"context"
	"time"
)

// DefaultCacheTTL bounds how stale served bias adjustments can get when
// decisions are written by another process.
const DefaultCacheTTL = 5 * time.Minute

// Service derives bias adjustments from stored decisions, caching the
// result per collection.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService creates a feedback service. A nil cache gets one with the
// default TTL.
func NewService(repo Repository, cache *Cache) *Service {
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	return &Service{repo: repo, cache: cache}
}

// Record persists a decision and invalidates the collection's cached
// adjustments.
func (s *Service) Record(ctx context.Context, decision *Decision) error {
	if err := s.repo.Create(ctx, decision); err != nil {
		return err
	}
	s.cache.Invalidate(decision.CollectionID)
	return nil
}

// Forget drops all stored decisions for a collection, used when the
// collection itself is deleted.
func (s *Service) Forget(ctx context.Context, collectionID string) error {
	if err := s.repo.DeleteByCollectionID(ctx, collectionID); err != nil {
		return err
	}
	s.cache.Invalidate(collectionID)
	return nil
}

// Adjustments returns the bias adjustments for a collection, derived from
// its recorded decisions. Collections with no decisions get neutral
// adjustments.
func (s *Service) Adjustments(ctx context.Context, collectionID string) (BiasAdjustments, error) {
	if cached, ok := s.cache.Get(collectionID); ok {
		return cached, nil
	}

	decisions, err := s.repo.GetByCollectionID(ctx, collectionID)
	if err != nil {
		return Neutral(), err
	}

	adjustments := Derive(decisions)
	s.cache.Set(collectionID, adjustments)
	return adjustments, nil
}
