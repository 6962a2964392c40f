package domain

import "time"

type Role string

const (
	RoleTraveler Role = "traveler"
	RoleCompany  Role = "company"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTraveler, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phone_number"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
