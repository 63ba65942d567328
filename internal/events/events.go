package events

import "lab-courier/internal/entities"

const (
	OrderAssignedEventName       = "order.assigned"
	UserLocationUpdatedEventName = "user.location_updated"
)

// OrderAssignedEvent fires after an order write that introduced new
// phlebotomist assignments. Delivery to devices is best-effort.
type OrderAssignedEvent struct {
	Order           entities.Order
	PhlebotomistIDs []string
}

func (e OrderAssignedEvent) Name() string { return OrderAssignedEventName }

// UserLocationUpdatedEvent fires when a courier reports a new live
// coordinate. Consumers recompute travel distances for that courier's
// open orders.
type UserLocationUpdatedEvent struct {
	UserID    string
	Latitude  float64
	Longitude float64
}

func (e UserLocationUpdatedEvent) Name() string { return UserLocationUpdatedEventName }
