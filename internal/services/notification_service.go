package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/repositories"
	"lab-courier/pkg/websocket"
)

// NotificationServiceInterface delivers assignment notices to couriers over
// every available channel. Delivery is fire-and-forget on all of them; a
// courier with no open connection and no push token simply sees the order
// on next refresh.
type NotificationServiceInterface interface {
	NotifyAssigned(ctx context.Context, order entities.Order, phlebotomistIDs []string) error
	BroadcastOrderUpdated(order entities.Order)
}

type notificationService struct {
	hub          *websocket.Hub
	userRepo     repositories.UserRepositoryInterface
	fcmServerKey string
	fcmEndpoint  string
	client       *http.Client
	logger       *zap.Logger
}

func NewNotificationService(
	hub *websocket.Hub,
	userRepo repositories.UserRepositoryInterface,
	fcmServerKey string,
	fcmEndpoint string,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &notificationService{
		hub:          hub,
		userRepo:     userRepo,
		fcmServerKey: fcmServerKey,
		fcmEndpoint:  fcmEndpoint,
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

type assignedPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	PatientName string `json:"patient_name"`
}

func (s *notificationService) NotifyAssigned(ctx context.Context, order entities.Order, phlebotomistIDs []string) error {
	payload := assignedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		PatientName: order.PatientName,
	}

	for _, userID := range phlebotomistIDs {
		s.hub.SendToUser(userID, websocket.Message{
			Type:    websocket.TypeOrderAssigned,
			Payload: payload,
		})

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			s.logger.Warn("cannot load user for push", zap.String("userID", userID), zap.Error(err))
			continue
		}
		if user.FCMToken == "" {
			continue
		}
		if err := s.sendPush(ctx, user.FCMToken, order); err != nil {
			s.logger.Warn("push delivery failed", zap.String("userID", userID), zap.Error(err))
		}
	}
	return nil
}

func (s *notificationService) BroadcastOrderUpdated(order entities.Order) {
	s.hub.Broadcast(websocket.Message{
		Type:    websocket.TypeOrderUpdated,
		Payload: assignedPayload{OrderID: order.ID, OrderNumber: order.OrderNumber},
	})
}

// sendPush posts a legacy-API FCM message. Disabled when no server key is
// configured.
func (s *notificationService) sendPush(ctx context.Context, token string, order entities.Order) error {
	if s.fcmServerKey == "" {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"to": token,
		"notification": map[string]string{
			"title": "New order assigned",
			"body":  fmt.Sprintf("Order %s for %s", order.OrderNumber, order.PatientName),
		},
		"data": map[string]string{
			"order_id": order.ID,
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.fcmEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.fcmServerKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("fcm returned status %d", resp.StatusCode)
	}
	return nil
}
