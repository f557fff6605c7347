package portalhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/attendance"
	"hrrecords/internal/domain/auth"
	"hrrecords/internal/domain/portal"
	"hrrecords/internal/transport/http/api"
	attendancehandler "hrrecords/internal/transport/http/handlers/attendance"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Service interface {
	Login(ctx context.Context, username, password string) (portal.Session, error)
	Logout(ctx context.Context, token string) error
	Dashboard(ctx context.Context, userID string) (portal.Dashboard, error)
	MarkAttendance(ctx context.Context, userID string, fields attendance.Fields) (attendance.UpsertResult, error)
}

type Handler struct {
	Service      Service
	CookieSecure bool
	LoginLimit   func(http.Handler) http.Handler
}

func NewHandler(service Service, cookieSecure bool, loginLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{Service: service, CookieSecure: cookieSecure, LoginLimit: loginLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portal", func(r chi.Router) {
		login := r
		if h.LoginLimit != nil {
			login = r.With(h.LoginLimit)
		}
		login.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.With(middleware.RequireAuthenticated).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequireAuthenticated).Post("/attendance", h.handleMark)
	})
}

// readValues accepts either a urlencoded form or a flat JSON object.
func readValues(r *http.Request) (url.Values, error) {
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		payload := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, err
		}
		values := url.Values{}
		for key, raw := range payload {
			switch v := raw.(type) {
			case string:
				values.Set(key, v)
			case nil:
			default:
				values.Set(key, fmt.Sprint(v))
			}
		}
		return values, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

type loginForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
}

type markForm struct {
	Status       string `form:"status" validate:"required,oneof=present absent remote sick vacation"`
	CheckInTime  string `form:"check_in_time" validate:"omitempty,clock"`
	CheckOutTime string `form:"check_out_time" validate:"omitempty,clock"`
	Notes        string `form:"notes" validate:"max=2000"`
}

func (f markForm) fields() attendance.Fields {
	return attendance.Fields{
		Status:       f.Status,
		CheckInTime:  clockPtr(f.CheckInTime),
		CheckOutTime: clockPtr(f.CheckOutTime),
		Notes:        f.Notes,
	}
}

func clockPtr(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	normalized, err := shared.ParseClock(raw)
	if err != nil {
		return nil
	}
	return &normalized
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", reqID)
	case errors.Is(err, portal.ErrNoEmployeeProfile):
		api.Fail(w, http.StatusForbidden, "no_employee_profile", "no employee profile found for this account", reqID)
	case errors.Is(err, portal.ErrInactiveEmployee):
		api.Fail(w, http.StatusForbidden, "employee_inactive", "your employee account is inactive", reqID)
	case errors.Is(err, attendance.ErrReasonRequired):
		api.Fail(w, http.StatusBadRequest, "reason_required", "please provide a reason for your absence", reqID)
	default:
		slog.Error("portal request failed", "op", op, "err", err, "request_id", reqID)
		shared.InternalError(w, r, "portal_"+op+"_failed", "portal request failed")
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(r)
	if err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	form := loginForm{Username: strings.TrimSpace(values.Get("username")), Password: values.Get("password")}
	v := shared.NewValidator()
	v.Struct(form)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	sess, err := h.Service.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		h.writeError(w, r, err, "login")
		return
	}
	h.setSessionCookie(w, sess.Token, sess.ExpiresAt)
	api.Success(w, map[string]any{
		"message":    "Welcome back, " + sess.Employee.FirstName + "!",
		"employee":   employeeSummary(sess.Employee.ID, sess.Employee.FullName(), sess.Employee.Department, sess.Employee.Position),
		"expires_at": sess.ExpiresAt.UTC(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		token = cookie.Value
	}
	if err := h.Service.Logout(r.Context(), token); err != nil {
		slog.Warn("portal session revoke failed", "err", err)
	}
	h.clearSessionCookie(w)
	api.Success(w, map[string]string{"message": "You have been logged out successfully."}, middleware.GetRequestID(r.Context()))
}

func employeeSummary(id, name, department, position string) map[string]string {
	return map[string]string{"id": id, "full_name": name, "department": department, "position": position}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	dash, err := h.Service.Dashboard(r.Context(), user.UserID)
	if err != nil {
		h.writeError(w, r, err, "dashboard")
		return
	}
	emp := dash.Employee
	api.Success(w, map[string]any{
		"employee":       employeeSummary(emp.ID, emp.FullName(), emp.Department, emp.Position),
		"period_start":   shared.FormatDay(dash.PeriodStart),
		"period_end":     shared.FormatDay(dash.PeriodEnd),
		"stats":          dash.Stats,
		"recent_records": attendancehandler.ToResponses(dash.RecentRecords),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMark(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(r)
	if err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	form := markForm{
		Status:       strings.ToLower(strings.TrimSpace(values.Get("status"))),
		CheckInTime:  strings.TrimSpace(values.Get("check_in_time")),
		CheckOutTime: strings.TrimSpace(values.Get("check_out_time")),
		Notes:        values.Get("notes"),
	}
	v := shared.NewValidator()
	v.Struct(form)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	user, _ := middleware.GetUser(r.Context())
	res, err := h.Service.MarkAttendance(r.Context(), user.UserID, form.fields())
	if err != nil {
		h.writeError(w, r, err, "mark")
		return
	}

	message := "Attendance updated to " + res.Record.Status + " for today."
	status := http.StatusOK
	if res.Created {
		message = "Attendance marked as " + res.Record.Status + " for today."
		status = http.StatusCreated
	}
	api.WriteJSON(w, status, api.Envelope{
		Success: true,
		Data: map[string]any{
			"created": res.Created,
			"message": message,
			"record":  attendancehandler.ToResponse(res.Record),
		},
		RequestID: middleware.GetRequestID(r.Context()),
	})
}
