package entities

import (
	"lab-courier/pkg/constants"
	"lab-courier/pkg/geo"
)

// User is an operator account. Users are created at sign-up and only ever
// deactivated, never hard-deleted.
type User struct {
	ID          string         `json:"id"`
	Username    string         `json:"username"`
	Role        constants.Role `json:"role"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phone_number"`
	AvatarURL   string         `json:"avatar_url"`
	IsActive    bool           `json:"is_active"`

	PasswordHash string `json:"-"`

	// FCMToken is the opaque push-delivery token of the user's device.
	FCMToken string `json:"-"`

	// Location is the last reported live coordinate, nil until the first
	// location fix.
	Location *geo.Coordinate `json:"location,omitempty"`
}

func (u *User) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"username":      u.Username,
		"role":          u.Role.String(),
		"email":         u.Email,
		"phoneNumber":   u.PhoneNumber,
		"avatarUrl":     u.AvatarURL,
		"isActive":      u.IsActive,
		"password_hash": u.PasswordHash,
		"fcmToken":      u.FCMToken,
	}
	if u.Location != nil {
		doc["location"] = map[string]interface{}{
			"latitude":  u.Location.Latitude,
			"longitude": u.Location.Longitude,
		}
	}
	return doc
}

// UserFromDocument parses a raw user record. Every field is optional and
// defaults; isActive defaults to true.
func UserFromDocument(id string, data map[string]interface{}) *User {
	u := &User{
		ID:           id,
		Username:     optString(data, "username"),
		Email:        optString(data, "email"),
		PhoneNumber:  optString(data, "phoneNumber"),
		AvatarURL:    optString(data, "avatarUrl"),
		IsActive:     true,
		PasswordHash: optString(data, "password_hash"),
		FCMToken:     optString(data, "fcmToken"),
	}
	if v, ok := data["isActive"].(bool); ok {
		u.IsActive = v
	}
	// The role string comes back as-is even when unrecognized; role checks
	// go through the closed Role type so unknown values simply match no tier.
	u.Role = constants.Role(optString(data, "role"))

	if loc, ok := data["location"].(map[string]interface{}); ok {
		lat, latOK := loc["latitude"].(float64)
		lng, lngOK := loc["longitude"].(float64)
		if latOK && lngOK {
			u.Location = &geo.Coordinate{Latitude: lat, Longitude: lng}
		}
	}
	return u
}
