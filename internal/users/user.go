package users

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

const (
	maxFullNameLength = 255
	minPasswordLength = 8
)

type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email")
	}
	return nil
}

func (r *RegisterRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.FullName) > maxFullNameLength {
		return errors.New("full name too long")
	}
	if len(r.Password) < minPasswordLength {
		return errors.New("password too short")
	}
	return nil
}

func (r *UpdateProfileRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.FullName) > maxFullNameLength {
		return errors.New("full name too long")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return errors.New("current password empty")
	}
	if len(r.NewPassword) < minPasswordLength {
		return errors.New("new password too short")
	}
	return nil
}
