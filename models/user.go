package models

import (
	"errors"
	"time"

	goval "github.com/go-passwd/validator"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered member of the exchange.
type User struct {
	Model
	Username       string `json:"username" gorm:"uniqueIndex;not null"`
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	Password       string `json:"password,omitempty" gorm:"-"`
	HashedPassword string `json:"-"`

	Listings []Listing `json:"-" gorm:"foreignKey:OwnerID"`
}

// VerifyPassword compares the supplied plain text password with the stored hash.
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(72, errors.New("password cant be more than 72 characters")))
	return passwordValidator.Validate(password)
}

// ValidateWhiteSpaces trims bound input according to its conform tags.
func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=2" conform:"trim"`
	Email    string `json:"email" form:"email" binding:"required,email" conform:"trim"`
	Password string `json:"password" form:"password" binding:"required"`
	Confirm  string `json:"confirm" form:"confirm"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required" conform:"trim"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	UserResponse
	AccessToken  string    `json:"access_token"`
	SessionToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewUserResponse shapes a User for the public API.
func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
