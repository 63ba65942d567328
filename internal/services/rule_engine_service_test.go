package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-courier/internal/entities"
	apperrors "lab-courier/pkg/errors"
)

type stubRuleRepo struct {
	rules []entities.Rule
	err   error
	calls int
}

func (s *stubRuleRepo) List(ctx context.Context) ([]entities.Rule, error) {
	s.calls++
	return s.rules, s.err
}

func (s *stubRuleRepo) GetByID(ctx context.Context, id string) (*entities.Rule, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubRuleRepo) Create(ctx context.Context, rule *entities.Rule) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubRuleRepo) Update(ctx context.Context, rule *entities.Rule) error {
	return errors.New("not implemented")
}

func (s *stubRuleRepo) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestResolvePhlebotomistFirstMatchWins(t *testing.T) {
	repo := &stubRuleRepo{rules: []entities.Rule{
		{ID: "r1", ReferringPhysicianID: []string{"doc-1"}, PhlebotomistID: "u1", IsActive: false},
		{ID: "r2", ReferringPhysicianID: []string{"doc-1", "doc-2"}, PhlebotomistID: "u2", IsActive: true},
		{ID: "r3", ReferringPhysicianID: []string{"doc-1"}, PhlebotomistID: "u3", IsActive: true},
	}}
	engine := NewRuleEngineService(repo, nil, time.Minute, zap.NewNop())

	// r1 is inactive, so r2 wins even though r3 also matches.
	assert.Equal(t, []string{"u2"}, engine.ResolvePhlebotomist(context.Background(), "doc-1"))
	assert.Equal(t, []string{"u2"}, engine.ResolvePhlebotomist(context.Background(), "doc-2"))
	assert.Empty(t, engine.ResolvePhlebotomist(context.Background(), "doc-9"))
}

func TestResolvePhlebotomistBlankPhysician(t *testing.T) {
	repo := &stubRuleRepo{}
	engine := NewRuleEngineService(repo, nil, time.Minute, zap.NewNop())

	assert.Empty(t, engine.ResolvePhlebotomist(context.Background(), ""))
	assert.Zero(t, repo.calls, "blank physician must not hit the repository")
}

func TestResolvePhlebotomistRepoFailureYieldsUnassigned(t *testing.T) {
	repo := &stubRuleRepo{err: errors.New("store down")}
	engine := NewRuleEngineService(repo, nil, time.Minute, zap.NewNop())

	result := engine.ResolvePhlebotomist(context.Background(), "doc-1")
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestResolvePhlebotomistUsesCache(t *testing.T) {
	repo := &stubRuleRepo{rules: []entities.Rule{
		{ID: "r1", ReferringPhysicianID: []string{"doc-1"}, PhlebotomistID: "u1", IsActive: true},
	}}
	cache := newMapCache()
	engine := NewRuleEngineService(repo, cache, time.Minute, zap.NewNop())

	require.Equal(t, []string{"u1"}, engine.ResolvePhlebotomist(context.Background(), "doc-1"))
	require.Equal(t, []string{"u1"}, engine.ResolvePhlebotomist(context.Background(), "doc-1"))
	assert.Equal(t, 1, repo.calls, "second resolution must come from the cache")

	engine.InvalidateCache(context.Background())
	require.Equal(t, []string{"u1"}, engine.ResolvePhlebotomist(context.Background(), "doc-1"))
	assert.Equal(t, 2, repo.calls)
}
