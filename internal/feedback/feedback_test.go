package feedback

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/paperweave/paperweave/pkg/models"
)

func tagDominant() models.Breakdown {
	return models.Breakdown{Tag: 0.9, Text: 0.1}
}

func textDominant() models.Breakdown {
	return models.Breakdown{Tag: 0.1, Text: 0.8}
}

func TestDeriveNoDecisions(t *testing.T) {
	got := Derive(nil)
	if got != Neutral() {
		t.Errorf("Derive(nil) = %+v, want neutral", got)
	}
}

func TestDeriveMeanAcceptRate(t *testing.T) {
	decisions := []Decision{
		{Accepted: true, Breakdown: tagDominant()},
		{Accepted: false, Breakdown: tagDominant()},
		{Accepted: true, Breakdown: textDominant()},
	}

	got := Derive(decisions)

	// tag: 1 accept of 2 -> 0.5 + 0.5 = 1.0
	if math.Abs(got.Tag-1.0) > 1e-9 {
		t.Errorf("tag multiplier = %v, want 1.0", got.Tag)
	}
	// text: 1 accept of 1 -> 0.5 + 1.0 = 1.5
	if math.Abs(got.Text-1.5) > 1e-9 {
		t.Errorf("text multiplier = %v, want 1.5", got.Text)
	}
	// untouched signals stay neutral
	if got.Year != 1.0 || got.Role != 1.0 || got.Connection != 1.0 {
		t.Errorf("untouched signals = %+v, want 1.0 each", got)
	}
}

func TestDeriveAllOverridden(t *testing.T) {
	decisions := []Decision{
		{Accepted: false, Breakdown: tagDominant()},
		{Accepted: false, Breakdown: tagDominant()},
	}

	got := Derive(decisions)
	if math.Abs(got.Tag-0.5) > 1e-9 {
		t.Errorf("tag multiplier = %v, want 0.5", got.Tag)
	}
}

func TestApplyClampsToUnitInterval(t *testing.T) {
	bias := BiasAdjustments{Tag: 1.5, Text: 1, Year: 1, Role: 1, Connection: 1}

	got := bias.Apply(0.9, tagDominant())
	if got != 1.0 {
		t.Errorf("Apply = %v, want clamp to 1.0", got)
	}

	bias.Tag = 0.5
	got = bias.Apply(0.6, tagDominant())
	if math.Abs(got-0.3) > 1e-9 {
		t.Errorf("Apply = %v, want 0.3", got)
	}
}

func TestCacheExpiryAndInvalidation(t *testing.T) {
	cache := NewCache(50 * time.Millisecond)
	bias := BiasAdjustments{Tag: 1.2, Text: 1, Year: 1, Role: 1, Connection: 1}

	cache.Set("col", bias)
	if got, ok := cache.Get("col"); !ok || got != bias {
		t.Fatalf("expected cache hit, got %+v, %v", got, ok)
	}

	cache.Invalidate("col")
	if _, ok := cache.Get("col"); ok {
		t.Error("expected miss after invalidation")
	}

	cache.Set("col", bias)
	time.Sleep(80 * time.Millisecond)
	if _, ok := cache.Get("col"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

// memoryRepository is an in-memory Repository for service tests.
type memoryRepository struct {
	decisions map[string][]Decision
	reads     int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{decisions: make(map[string][]Decision)}
}

func (m *memoryRepository) Create(ctx context.Context, decision *Decision) error {
	m.decisions[decision.CollectionID] = append(m.decisions[decision.CollectionID], *decision)
	return nil
}

func (m *memoryRepository) GetByCollectionID(ctx context.Context, collectionID string) ([]Decision, error) {
	m.reads++
	return m.decisions[collectionID], nil
}

func (m *memoryRepository) DeleteByCollectionID(ctx context.Context, collectionID string) error {
	delete(m.decisions, collectionID)
	return nil
}

func TestServiceAdjustmentsCached(t *testing.T) {
	repo := newMemoryRepository()
	service := NewService(repo, NewCache(time.Minute))
	ctx := context.Background()

	if _, err := service.Adjustments(ctx, "col"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Adjustments(ctx, "col"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.reads != 1 {
		t.Errorf("repository read %d times, want 1 (second call cached)", repo.reads)
	}
}

func TestServiceRecordInvalidatesCache(t *testing.T) {
	repo := newMemoryRepository()
	service := NewService(repo, NewCache(time.Minute))
	ctx := context.Background()

	before, err := service.Adjustments(ctx, "col")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != Neutral() {
		t.Errorf("expected neutral adjustments, got %+v", before)
	}

	decision := &Decision{CollectionID: "col", EdgeID: "e1", Accepted: true, Breakdown: tagDominant()}
	if err := service.Record(ctx, decision); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := service.Adjustments(ctx, "col")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(after.Tag-1.5) > 1e-9 {
		t.Errorf("tag multiplier = %v, want 1.5 after accepted decision", after.Tag)
	}
}
