package user

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

// User is a registered player or commissioner.
type User struct {
	ID        int64
	Username  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Role != RoleAdmin && u.Role != RolePlayer {
		return fmt.Errorf("role %q is not supported", u.Role)
	}

	return nil
}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
