package authhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/auth"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type TokenIssuer interface {
	IssueToken(ctx context.Context, username, password string) (auth.IssuedToken, error)
	CurrentUser(ctx context.Context, userID string) (auth.User, error)
}

type EmployeeLookup interface {
	GetByUserID(ctx context.Context, userID string) (employees.Employee, error)
}

type Handler struct {
	Auth       TokenIssuer
	Employees  EmployeeLookup
	LoginLimit func(http.Handler) http.Handler
}

func NewHandler(issuer TokenIssuer, lookup EmployeeLookup, loginLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{Auth: issuer, Employees: lookup, LoginLimit: loginLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	token := r
	if h.LoginLimit != nil {
		token = r.With(h.LoginLimit)
	}
	token.Post("/auth/token", h.handleToken)
	r.With(middleware.RequireAuthenticated).Get("/me", h.handleMe)
}

type tokenRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	var payload tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	issued, err := h.Auth.IssueToken(r.Context(), payload.Username, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Error("issue token failed", "err", err, "request_id", middleware.GetRequestID(r.Context()))
		shared.InternalError(w, r, "token_error", "failed to issue token")
		return
	}
	api.Success(w, issued, middleware.GetRequestID(r.Context()))
}

type linkedEmployee struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Status     string `json:"status"`
	IsActive   bool   `json:"is_active"`
}

type meResponse struct {
	User          auth.User       `json:"user"`
	Authenticated string          `json:"authenticated_via"`
	Employee      *linkedEmployee `json:"employee"`
	ServerTime    time.Time       `json:"server_time"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetUser(r.Context())
	user, err := h.Auth.CurrentUser(r.Context(), caller.UserID)
	if errors.Is(err, auth.ErrUserNotFound) {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Error("load current user failed", "err", err, "user_id", caller.UserID)
		shared.InternalError(w, r, "user_lookup_failed", "failed to load current user")
		return
	}

	out := meResponse{User: user, Authenticated: caller.Via, ServerTime: time.Now().UTC()}
	emp, err := h.Employees.GetByUserID(r.Context(), user.ID)
	switch {
	case err == nil:
		out.Employee = &linkedEmployee{
			ID:         emp.ID,
			FullName:   emp.FullName(),
			Department: emp.Department,
			Position:   emp.Position,
			Status:     emp.Status,
			IsActive:   emp.IsActive,
		}
	case !errors.Is(err, employees.ErrNotFound):
		slog.Warn("linked employee lookup failed", "err", err, "user_id", user.ID)
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
