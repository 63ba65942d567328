package dto

import (
	"lab-courier/internal/entities"
	"lab-courier/pkg/geo"
)

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

func (r *UpdateLocationRequest) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

type UpdateFCMTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// UserResponse is the public projection of a user record.
type UserResponse struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Role        string          `json:"role"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	AvatarURL   string          `json:"avatar_url"`
	IsActive    bool            `json:"is_active"`
	Location    *geo.Coordinate `json:"location,omitempty"`
}

func UserResponseFromEntity(u *entities.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role.String(),
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		Location:    u.Location,
	}
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}
