package model

import "time"

// Store represents a tenant. Slug is globally unique and appears in public
// play URLs.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Logo      string    `json:"logo,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// StoreUser is a staff account scoped to one store.
// Role is one of owner, manager, staff.
type StoreUser struct {
	ID           string     `json:"id"`
	StoreID      string     `json:"store_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"-"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// AdminUser is a platform-level account; its tokens carry the superadmin
// role and are not bound to any store.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"-"`
}

// CreateStoreRequest is the DTO for creating a store.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Slug    string `json:"slug" validate:"required,slug,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address" validate:"max=255"`
	Logo    string `json:"logo" validate:"max=500"`
	Active  *bool  `json:"active"`
}

// LoginRequest is the DTO for store-user and admin logins.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse carries the signed token and the authenticated identity.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the identity echoed back on login.
type LoginUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID string `json:"store_id,omitempty"`
}
