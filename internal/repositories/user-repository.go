package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/pkg/docstore"
	apperrors "lab-courier/pkg/errors"
)

const usersCollection = "users"

type UserRepositoryInterface interface {
	List(ctx context.Context) ([]entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) (string, error)
	Update(ctx context.Context, user *entities.User) error
}

type userRepository struct {
	docs   docstore.Store
	logger *zap.Logger
}

func NewUserRepository(docs docstore.Store, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{docs: docs, logger: logger}
}

func (r *userRepository) List(ctx context.Context) ([]entities.User, error) {
	docs, err := r.docs.List(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("user repository: list: %w", err)
	}
	users := make([]entities.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, *entities.UserFromDocument(doc.ID(), doc.Data))
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	data, err := r.docs.Get(ctx, usersCollection+"/"+id)
	if err != nil {
		return nil, err
	}
	return entities.UserFromDocument(id, data), nil
}

// GetByEmail scans the collection; there is no secondary index in the
// document store, and the user set is small.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) (string, error) {
	id := uuid.New().String()
	user.ID = id
	if err := r.docs.Set(ctx, usersCollection+"/"+id, user.Document()); err != nil {
		return "", fmt.Errorf("user repository: create: %w", err)
	}
	return id, nil
}

func (r *userRepository) Update(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		return apperrors.ErrInvalidState
	}
	return r.docs.Set(ctx, usersCollection+"/"+user.ID, user.Document())
}
