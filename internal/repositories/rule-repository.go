package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/pkg/docstore"
	apperrors "lab-courier/pkg/errors"
)

const rulesCollection = "rules"

// RuleRepositoryInterface persists assignment rules. List returns rules in
// store path order, which fixes the first-match-wins evaluation order.
type RuleRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Rule, error)
	GetByID(ctx context.Context, id string) (*entities.Rule, error)
	Create(ctx context.Context, rule *entities.Rule) (string, error)
	Update(ctx context.Context, rule *entities.Rule) error
	Delete(ctx context.Context, id string) error
}

type ruleRepository struct {
	docs   docstore.Store
	logger *zap.Logger
}

func NewRuleRepository(docs docstore.Store, logger *zap.Logger) RuleRepositoryInterface {
	return &ruleRepository{docs: docs, logger: logger}
}

func (r *ruleRepository) List(ctx context.Context) ([]entities.Rule, error) {
	docs, err := r.docs.List(ctx, rulesCollection)
	if err != nil {
		return nil, fmt.Errorf("rule repository: list: %w", err)
	}
	rules := make([]entities.Rule, 0, len(docs))
	for _, doc := range docs {
		rule, err := entities.RuleFromDocument(doc.ID(), doc.Data)
		if err != nil {
			r.logger.Warn("dropping malformed rule", zap.Error(err))
			continue
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

func (r *ruleRepository) GetByID(ctx context.Context, id string) (*entities.Rule, error) {
	data, err := r.docs.Get(ctx, rulesCollection+"/"+id)
	if err != nil {
		return nil, err
	}
	rule, err := entities.RuleFromDocument(id, data)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	return rule, nil
}

func (r *ruleRepository) Create(ctx context.Context, rule *entities.Rule) (string, error) {
	id := uuid.New().String()
	rule.ID = id
	if err := r.docs.Set(ctx, rulesCollection+"/"+id, rule.Document()); err != nil {
		return "", fmt.Errorf("rule repository: create: %w", err)
	}
	return id, nil
}

func (r *ruleRepository) Update(ctx context.Context, rule *entities.Rule) error {
	if rule.ID == "" {
		return apperrors.ErrInvalidState
	}
	if _, err := r.docs.Get(ctx, rulesCollection+"/"+rule.ID); err != nil {
		return err
	}
	return r.docs.Set(ctx, rulesCollection+"/"+rule.ID, rule.Document())
}

func (r *ruleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.docs.Get(ctx, rulesCollection+"/"+id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return r.docs.Delete(ctx, rulesCollection+"/"+id)
}
