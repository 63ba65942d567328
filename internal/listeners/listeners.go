package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lab-courier/internal/events"
	"lab-courier/internal/services"
	"lab-courier/pkg/eventbus"
	"lab-courier/pkg/geo"
)

// Register wires the asynchronous reactions to domain events: assignment
// notices fan out to devices, location fixes trigger distance recomputes.
func Register(
	bus *eventbus.Bus,
	notifications services.NotificationServiceInterface,
	distances services.DistanceServiceInterface,
	logger *zap.Logger,
) {
	bus.Subscribe(events.OrderAssignedEventName, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(events.OrderAssignedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, events.OrderAssignedEventName)
		}
		return notifications.NotifyAssigned(ctx, e.Order, e.PhlebotomistIDs)
	})

	bus.Subscribe(events.UserLocationUpdatedEventName, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(events.UserLocationUpdatedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, events.UserLocationUpdatedEventName)
		}
		logger.Debug("recomputing distances", zap.String("userID", e.UserID))
		return distances.RecomputeForUser(ctx, e.UserID, geo.Coordinate{
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		})
	})
}
