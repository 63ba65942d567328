package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/repositories"
	apperrors "lab-courier/pkg/errors"
)

const ruleSetCacheKey = "rules:all"

// RuleEngineServiceInterface resolves the automatic phlebotomist assignment
// for a new order. Resolution is advisory: any failure yields an empty
// assignment, never an error that would block order creation.
type RuleEngineServiceInterface interface {
	ResolvePhlebotomist(ctx context.Context, referringPhysicianID string) []string
	InvalidateCache(ctx context.Context)
}

type ruleEngineService struct {
	ruleRepo repositories.RuleRepositoryInterface
	cache    repositories.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRuleEngineService builds the engine. cache may be nil, in which case
// every resolution reads the rule collection directly.
func NewRuleEngineService(
	ruleRepo repositories.RuleRepositoryInterface,
	cache repositories.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) RuleEngineServiceInterface {
	return &ruleEngineService{
		ruleRepo: ruleRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ResolvePhlebotomist walks the rules in store order and returns the
// phlebotomist of the first active rule covering the physician, as a
// single-element list ready for the order's assignment field. No match, a
// blank physician id, or a failed rule fetch all yield an empty list.
func (s *ruleEngineService) ResolvePhlebotomist(ctx context.Context, referringPhysicianID string) []string {
	if referringPhysicianID == "" {
		return []string{}
	}

	rules, err := s.loadRules(ctx)
	if err != nil {
		s.logger.Warn("rule fetch failed, creating order unassigned", zap.Error(err))
		return []string{}
	}

	for _, rule := range rules {
		if rule.Matches(referringPhysicianID) {
			return []string{rule.PhlebotomistID}
		}
	}
	return []string{}
}

func (s *ruleEngineService) loadRules(ctx context.Context) ([]entities.Rule, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ruleSetCacheKey)
		if err == nil {
			var rules []entities.Rule
			if err := json.Unmarshal(cached, &rules); err == nil {
				return rules, nil
			}
			// Corrupt cache entry; fall through and rebuild it.
			s.InvalidateCache(ctx)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("rule cache unavailable", zap.Error(err))
		}
	}

	rules, err := s.ruleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(rules); err == nil {
			if err := s.cache.Set(ctx, ruleSetCacheKey, encoded, s.cacheTTL); err != nil {
				s.logger.Warn("rule cache write failed", zap.Error(err))
			}
		}
	}
	return rules, nil
}

func (s *ruleEngineService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ruleSetCacheKey); err != nil {
		s.logger.Warn("rule cache invalidation failed", zap.Error(err))
	}
}
