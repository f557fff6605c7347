package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Provisioner creates the login credential for a newly created employee. It
// must run in the same transaction as the employee insert so a failure here
// rolls the employee back too.
type Provisioner struct {
	Users           UserCreator
	Employees       EmployeeLinker
	DefaultPassword string

	hash func(string) (string, error)
}

func NewProvisioner(users UserCreator, employees EmployeeLinker, defaultPassword string) *Provisioner {
	return &Provisioner{Users: users, Employees: employees, DefaultPassword: defaultPassword, hash: HashPassword}
}

// UsernameBase is the local part of an email address.
func UsernameBase(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// UsernameCandidate yields base, base1, base2, ...
func UsernameCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return base + strconv.Itoa(attempt)
}

func (p *Provisioner) ProvisionForEmployee(ctx context.Context, target ProvisionTarget) (ProvisionResult, error) {
	if target.UserID != nil && *target.UserID != "" {
		return ProvisionResult{Outcome: ProvisionAlreadyLinked, UserID: *target.UserID}, nil
	}
	base := UsernameBase(target.Email)
	if base == "" {
		return ProvisionResult{}, ErrEmailRequired
	}

	hashFn := p.hash
	if hashFn == nil {
		hashFn = HashPassword
	}
	hash, err := hashFn(p.DefaultPassword)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("hash default password: %w", err)
	}

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := UsernameCandidate(base, attempt)
		userID, inserted, err := p.Users.CreateUserIfAbsent(ctx, NewUser{
			Username:     username,
			Email:        target.Email,
			PasswordHash: hash,
			FirstName:    target.FirstName,
			LastName:     target.LastName,
		})
		if err != nil {
			return ProvisionResult{}, err
		}
		if !inserted {
			continue
		}
		if err := p.Employees.LinkUser(ctx, target.EmployeeID, userID); err != nil {
			return ProvisionResult{}, fmt.Errorf("link user to employee: %w", err)
		}
		return ProvisionResult{Outcome: ProvisionCreated, Username: username, UserID: userID}, nil
	}
	return ProvisionResult{}, fmt.Errorf("%w for %q", ErrUsernameExhausted, base)
}
