package services

import (
	"context"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/events"
	"lab-courier/internal/repositories"
	"lab-courier/pkg/eventbus"
	"lab-courier/pkg/geo"
)

type UserServiceInterface interface {
	List(ctx context.Context) ([]entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	ListByRole(ctx context.Context, role string) ([]entities.User, error)
	UpdateLocation(ctx context.Context, userID string, coord geo.Coordinate) error
	UpdateFCMToken(ctx context.Context, userID, token string) error
	Deactivate(ctx context.Context, userID string) error
}

type userService struct {
	userRepo repositories.UserRepositoryInterface
	bus      *eventbus.Bus
	logger   *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) UserServiceInterface {
	return &userService{userRepo: userRepo, bus: bus, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]entities.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) ListByRole(ctx context.Context, role string) ([]entities.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]entities.User, 0, len(users))
	for i := range users {
		if users[i].IsActive && users[i].Role.String() == role {
			matched = append(matched, users[i])
		}
	}
	return matched, nil
}

// UpdateLocation stores the new coordinate and announces it on the bus;
// distance recomputation happens asynchronously off that event.
func (s *userService) UpdateLocation(ctx context.Context, userID string, coord geo.Coordinate) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Location = &coord
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.UserLocationUpdatedEvent{
		UserID:    userID,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
	})
	return nil
}

func (s *userService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.FCMToken = token
	return s.userRepo.Update(ctx, user)
}

// Deactivate soft-disables the account; the record stays for analytics and
// order history.
func (s *userService) Deactivate(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.userRepo.Update(ctx, user)
}
