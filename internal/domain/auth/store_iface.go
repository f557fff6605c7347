package auth

import (
	"context"
	"time"
)

type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type StoreAPI interface {
	FindActiveByUsername(ctx context.Context, username string) (Credential, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error
	SessionUser(ctx context.Context, tokenHash string) (User, error)
	RevokeSession(ctx context.Context, tokenHash string) error
}

// UserCreator inserts a credential unless the username is taken, in which
// case inserted is false and no error is returned.
type UserCreator interface {
	CreateUserIfAbsent(ctx context.Context, user NewUser) (id string, inserted bool, err error)
}

// EmployeeLinker writes only the credential link of an employee row.
type EmployeeLinker interface {
	LinkUser(ctx context.Context, employeeID, userID string) error
}

var _ StoreAPI = (*Store)(nil)
var _ UserCreator = (*Store)(nil)
