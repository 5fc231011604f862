package models

import (
	"time"
)

// User roles
const (
	RoleCustomer   = "customer"
	RoleProvider   = "provider"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	Role      string    `db:"role" json:"role"`
	Region    *string   `db:"region" json:"region,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=customer provider"`
	Region   string `json:"region,omitempty" validate:"omitempty,max=100"`

	// Provider fields, only read when role is "provider".
	ServiceType   string `json:"service_type,omitempty" validate:"omitempty,max=100"`
	Location      string `json:"location,omitempty" validate:"omitempty,max=150"`
	ContactNumber string `json:"contact_number,omitempty" validate:"omitempty,max=30"`
	Description   string `json:"description,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateAccountRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Region   string `json:"region" validate:"required,max=100"`
}

type UserResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Region *string `json:"region,omitempty"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Region: u.Region,
	}
}

// RegionLabel returns the user's assigned region, or "" when none is set.
func (u *User) RegionLabel() string {
	if u.Region == nil {
		return ""
	}
	return *u.Region
}

func IsValidRole(role string) bool {
	return role == RoleCustomer || role == RoleProvider || role == RoleAdmin || role == RoleSuperAdmin
}
