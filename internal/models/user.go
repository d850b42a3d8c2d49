package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyUser     = errors.New("user data is empty")
	ErrMissingUserID = errors.New("user data has no id")
)

// User is the profile the backend hands over on the OAuth callback.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
}

func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// ParseUser decodes the callback's user parameter. The value may arrive still percent-encoded.
func ParseUser(raw string) (*User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyUser
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}

	var user User
	if err := json.Unmarshal([]byte(decoded), &user); err != nil {
		return nil, fmt.Errorf("failed to parse user data: %w", err)
	}

	// null and {} decode cleanly into an empty profile
	if strings.TrimSpace(user.ID) == "" {
		return nil, ErrMissingUserID
	}

	return &user, nil
}
