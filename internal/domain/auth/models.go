package auth

import "time"

type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsStaff   bool       `json:"is_staff"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Credential is a user row together with its password hash. It never leaves
// the auth package boundary in a response.
type Credential struct {
	User
	PasswordHash string
}

// UserContext is what the transport layer keeps about the caller.
type UserContext struct {
	UserID   string
	Username string
	IsStaff  bool
	Via      string
}

const (
	ViaToken   = "token"
	ViaSession = "session"
)

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// ProvisionTarget is the employee a credential is provisioned for.
type ProvisionTarget struct {
	EmployeeID string
	Email      string
	FirstName  string
	LastName   string
	UserID     *string
}

type ProvisionOutcome int

const (
	ProvisionCreated ProvisionOutcome = iota + 1
	ProvisionAlreadyLinked
)

type ProvisionResult struct {
	Outcome  ProvisionOutcome
	Username string
	UserID   string
}
