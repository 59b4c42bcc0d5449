package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAgent   = "agent"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// ValidRoles are the accepted console user roles.
var ValidRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleAgent:   true,
}

// ValidUserStatuses are the accepted user statuses.
var ValidUserStatuses = map[string]bool{
	UserStatusActive:   true,
	UserStatusInactive: true,
}

// User is a back-office operator account managed through the console.
// Authentication is handled in front of the console; only the reference
// records are maintained here.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"` // admin, manager, agent
	Branch    string     `json:"branch"`
	Status    string     `json:"status"` // active, inactive
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func (u *User) RecordID() int64      { return u.ID }
func (u *User) SetRecordID(id int64) { u.ID = id }
