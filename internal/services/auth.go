package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lab-courier/internal/entities"
	"lab-courier/internal/repositories"
	"lab-courier/pkg/constants"
	apperrors "lab-courier/pkg/errors"
	"lab-courier/pkg/service"
)

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthServiceInterface interface {
	Register(ctx context.Context, user *entities.User, password string) (*entities.User, error)
	Login(ctx context.Context, email, password string) (*entities.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authService struct {
	userRepo repositories.UserRepositoryInterface
	jwt      service.JWTService
	logger   *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwt service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &authService{userRepo: userRepo, jwt: jwt, logger: logger}
}

func (s *authService) Register(ctx context.Context, user *entities.User, password string) (*entities.User, error) {
	if !user.Role.Valid() {
		return nil, apperrors.NewInvalidInputError("unknown role %q", user.Role)
	}
	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return nil, apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	user.IsActive = true

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*entities.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwt.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, nil, err
	}
	return user, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrForbidden
	}
	if !user.Role.Valid() {
		user.Role = constants.Role(claims.Role)
	}

	access, refresh, err := s.jwt.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
