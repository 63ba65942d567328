package services

import (
	"context"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/repositories"
)

type RuleServiceInterface interface {
	List(ctx context.Context) ([]entities.Rule, error)
	GetByID(ctx context.Context, id string) (*entities.Rule, error)
	Create(ctx context.Context, rule *entities.Rule) (*entities.Rule, error)
	Update(ctx context.Context, rule *entities.Rule) (*entities.Rule, error)
	Delete(ctx context.Context, id string) error
}

type ruleService struct {
	ruleRepo   repositories.RuleRepositoryInterface
	ruleEngine RuleEngineServiceInterface
	logger     *zap.Logger
}

func NewRuleService(
	ruleRepo repositories.RuleRepositoryInterface,
	ruleEngine RuleEngineServiceInterface,
	logger *zap.Logger,
) RuleServiceInterface {
	return &ruleService{ruleRepo: ruleRepo, ruleEngine: ruleEngine, logger: logger}
}

func (s *ruleService) List(ctx context.Context) ([]entities.Rule, error) {
	return s.ruleRepo.List(ctx)
}

func (s *ruleService) GetByID(ctx context.Context, id string) (*entities.Rule, error) {
	return s.ruleRepo.GetByID(ctx, id)
}

// Rule writes invalidate the engine's cached rule set so new orders see the
// change immediately instead of after the TTL.

func (s *ruleService) Create(ctx context.Context, rule *entities.Rule) (*entities.Rule, error) {
	if _, err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	s.ruleEngine.InvalidateCache(ctx)
	return rule, nil
}

func (s *ruleService) Update(ctx context.Context, rule *entities.Rule) (*entities.Rule, error) {
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	s.ruleEngine.InvalidateCache(ctx)
	return rule, nil
}

func (s *ruleService) Delete(ctx context.Context, id string) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ruleEngine.InvalidateCache(ctx)
	return nil
}
