package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/orderstore"
	"lab-courier/pkg/geo"
)

// DistanceServiceInterface keeps the travel-distance field of open orders
// in sync with the assigned courier's live coordinate.
type DistanceServiceInterface interface {
	RecomputeForUser(ctx context.Context, userID string, from geo.Coordinate) error
}

type distanceService struct {
	orders   *orderstore.Store
	geocoder geo.Geocoder
	logger   *zap.Logger
}

func NewDistanceService(orders *orderstore.Store, geocoder geo.Geocoder, logger *zap.Logger) DistanceServiceInterface {
	return &distanceService{orders: orders, geocoder: geocoder, logger: logger}
}

// RecomputeForUser updates the distance of every open order assigned to the
// courier. Each order geocodes its own pickup address; a failed geocode
// leaves that order's previous distance untouched.
func (s *distanceService) RecomputeForUser(ctx context.Context, userID string, from geo.Coordinate) error {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return err
	}

	for i := range orders {
		order := orders[i]
		if !order.IsAssignedTo(userID) || order.IsCompleted() {
			continue
		}

		destination, err := s.geocoder.Geocode(ctx, pickupAddress(&order))
		if err != nil {
			s.logger.Warn("geocoding failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
			continue
		}

		order.Distance = geo.HaversineMiles(from, destination)
		if err := s.orders.Update(ctx, &order); err != nil {
			s.logger.Warn("distance write failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	return nil
}

func pickupAddress(order *entities.Order) string {
	parts := []string{
		order.PhysicianAddress,
		order.PhysicianCity,
		order.PhysicianState,
		order.PhysicianZipcode,
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
