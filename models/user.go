package models

import "time"

// UserRole mirrors the role claim issued by the upstream identity service.
type UserRole string

const (
	UserRoleReader UserRole = "reader"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
}
