package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	Store      StoreAPI
	Tx         TxRunner
	Secret     string
	TokenTTL   time.Duration
	SessionTTL time.Duration
	Now        func() time.Time
}

func NewService(store StoreAPI, tx TxRunner, secret string, tokenTTL, sessionTTL time.Duration) *Service {
	return &Service{Store: store, Tx: tx, Secret: secret, TokenTTL: tokenTTL, SessionTTL: sessionTTL, Now: time.Now}
}

type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Authenticate checks a username/password pair against active credentials.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	cred, err := s.Store.FindActiveByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("find credential: %w", err)
	}
	if err := CheckPassword(cred.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return cred.User, nil
}

func (s *Service) IssueToken(ctx context.Context, username, password string) (IssuedToken, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return IssuedToken{}, err
	}
	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff}, s.TokenTTL)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   s.now().Add(s.TokenTTL).UTC(),
		User:        user,
	}, nil
}

func (s *Service) ResolveToken(token string) (UserContext, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return UserContext{}, err
	}
	return UserContext{UserID: claims.UserID, Username: claims.Username, IsStaff: claims.IsStaff, Via: ViaToken}, nil
}

// StartSession persists a new portal session for userID and returns the raw
// cookie value. The session row and the last-login stamp commit together.
func (s *Service) StartSession(ctx context.Context, userID string) (string, time.Time, error) {
	token, err := NewSessionToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	expires := s.now().Add(s.SessionTTL)
	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.Store.CreateSession(ctx, userID, HashToken(token), expires); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if err := s.Store.UpdateLastLogin(ctx, userID); err != nil {
			return fmt.Errorf("update last login: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *Service) ResolveSession(ctx context.Context, token string) (User, error) {
	if strings.TrimSpace(token) == "" {
		return User{}, ErrSessionInvalid
	}
	return s.Store.SessionUser(ctx, HashToken(token))
}

func (s *Service) EndSession(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.Store.RevokeSession(ctx, HashToken(token))
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (User, error) {
	return s.Store.GetUser(ctx, userID)
}
