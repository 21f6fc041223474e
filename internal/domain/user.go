package domain

import "time"

type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleManager       Role = "MANAGER"
	RoleWorker        Role = "WORKER"
)

// ManagerLevel reports whether the role may decide approvals on behalf of
// others. Administrators additionally have no approval ceiling at all.
func (r Role) ManagerLevel() bool {
	return r == RoleAdministrator || r == RoleManager
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleManager, RoleWorker:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Actor identifies the authenticated user performing an operation. Core
// services receive it explicitly; nothing reads ambient request state.
type Actor struct {
	UserID int64
	Role   Role
}
