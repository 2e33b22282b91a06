package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User is the public-safe representation of a registered account. It never
// carries password material; the hash travels only in the credential pair
// exchanged between the service and the repository.
type User struct {
	ID        string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// NewUserInput carries the normalized registration fields handed to the
// repository. The password hash is passed alongside, never inside, so the
// struct stays safe to log.
type NewUserInput struct {
	Username string
	Email    string
	Role     string
}
