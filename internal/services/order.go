package services

import (
	"context"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/events"
	"lab-courier/internal/orderstore"
	"lab-courier/pkg/eventbus"
	apperrors "lab-courier/pkg/errors"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, order *entities.Order) (*entities.Order, error)
	Update(ctx context.Context, order *entities.Order) (*entities.Order, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	List(ctx context.Context) ([]entities.Order, error)
	ListForPhlebotomist(ctx context.Context, userID string) ([]entities.Order, error)
	Assign(ctx context.Context, id string, phlebotomists, logistics []string) (*entities.Order, error)
}

type orderService struct {
	orders     *orderstore.Store
	ruleEngine RuleEngineServiceInterface
	bus        *eventbus.Bus
	logger     *zap.Logger
}

func NewOrderService(
	orders *orderstore.Store,
	ruleEngine RuleEngineServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &orderService{
		orders:     orders,
		ruleEngine: ruleEngine,
		bus:        bus,
		logger:     logger,
	}
}

// Create resolves the automatic assignment BEFORE the first write, so the
// record never appears unassigned and then flips: the single created
// document already carries the phlebotomist. The status history stays
// empty; an empty history is what marks the order as new, and transitions
// are strictly caller-driven through the workflow.
func (s *orderService) Create(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	if len(order.Phlebotomist) == 0 {
		order.Phlebotomist = s.ruleEngine.ResolvePhlebotomist(ctx, order.ReferringPhysicianID)
	}

	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if len(order.Phlebotomist) > 0 {
		s.bus.Publish(ctx, events.OrderAssignedEvent{
			Order:           *order,
			PhlebotomistIDs: append([]string(nil), order.Phlebotomist...),
		})
	}
	return order, nil
}

func (s *orderService) Update(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	existing, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.ErrNotFound
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperrors.ErrNotFound
	}
	return s.orders.Delete(ctx, order)
}

func (s *orderService) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context) ([]entities.Order, error) {
	return s.orders.List(ctx)
}

func (s *orderService) ListForPhlebotomist(ctx context.Context, userID string) ([]entities.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]entities.Order, 0, len(orders))
	for i := range orders {
		if orders[i].IsAssignedTo(userID) {
			mine = append(mine, orders[i])
		}
	}
	return mine, nil
}

// Assign replaces both assignment lists wholesale; this is the one place
// besides creation where assignments change. Newly added phlebotomists are
// notified, ones already on the order are not.
func (s *orderService) Assign(ctx context.Context, id string, phlebotomists, logistics []string) (*entities.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	previous := make(map[string]bool, len(order.Phlebotomist))
	for _, userID := range order.Phlebotomist {
		previous[userID] = true
	}

	order.Phlebotomist = phlebotomists
	order.Logistic = logistics
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	added := make([]string, 0, len(phlebotomists))
	for _, userID := range phlebotomists {
		if !previous[userID] {
			added = append(added, userID)
		}
	}
	if len(added) > 0 {
		s.bus.Publish(ctx, events.OrderAssignedEvent{Order: *order, PhlebotomistIDs: added})
	}
	return order, nil
}
