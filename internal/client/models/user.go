package models

import "time"

type UserRole string

const (
	RoleResident       UserRole = "resident"
	RoleMunicipalStaff UserRole = "municipal_staff"
	RoleAdmin          UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleResident, RoleMunicipalStaff, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserDetails is the payer block attached to a payment.
type UserDetails struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string  `json:"lastName" validate:"required,min=1,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

type RegisterRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6,max=100"`
	FirstName      string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName       string  `json:"lastName" validate:"required,min=1,max=100"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,phone"`
	MunicipalityID *string `json:"municipalityId,omitempty" validate:"omitempty,uuid"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	User         User      `json:"user"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// UpdateProfileRequest changes only the fields that are set.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

type UserProfileResponse struct {
	User           User           `json:"user"`
	Municipalities []Municipality `json:"municipalities"`
}
