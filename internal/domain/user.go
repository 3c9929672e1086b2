package domain

import "errors"

// AdminName is the username of the referee.
const AdminName = "admin"

// Role is what a user is allowed to do.
type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

// User is one entry of the static roster.
type User struct {
	Name     string `json:"name" yaml:"name"`
	Password string `json:"-" yaml:"password"`
}

// Role returns the referee role for the admin account, player otherwise.
func (u User) Role() Role {
	if u.Name == AdminName {
		return RoleAdmin
	}
	return RolePlayer
}

// ErrDuplicateUser is returned when a roster lists the same name twice.
var ErrDuplicateUser = errors.New("duplicate user in roster")
