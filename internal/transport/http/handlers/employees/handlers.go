package employeeshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/employees"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter employees.Filter, limit, offset int) ([]employees.Employee, int, error)
	Search(ctx context.Context, term string) ([]employees.Employee, error)
	Get(ctx context.Context, id string) (employees.Employee, error)
	Create(ctx context.Context, fields employees.Fields) (employees.CreateResult, error)
	Update(ctx context.Context, id string, fields employees.Fields) (employees.Employee, error)
	Patch(ctx context.Context, id string, patch employees.Patch) (employees.Employee, error)
	Delete(ctx context.Context, id string) error
	Insights(ctx context.Context, id string) (employees.Insights, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/search", h.handleSearch)
		r.Get("/{employeeID}", h.handleGet)
		r.Put("/{employeeID}", h.handleUpdate)
		r.Patch("/{employeeID}", h.handlePatch)
		r.Delete("/{employeeID}", h.handleDelete)
		r.Get("/{employeeID}/insights", h.handleInsights)
	})
}

type employeeRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Position   string `json:"position" validate:"required,max=120"`
	Department string `json:"department" validate:"required,max=120"`
	DateHired  string `json:"date_hired" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"omitempty,oneof=active on_leave terminated"`
	IsActive   *bool  `json:"is_active"`
}

func (p employeeRequest) fields() employees.Fields {
	hired, _ := shared.ParseDay(p.DateHired)
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return employees.Fields{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Position:   p.Position,
		Department: p.Department,
		DateHired:  hired,
		Status:     p.Status,
		IsActive:   active,
	}
}

type employeePatchRequest struct {
	FirstName  *string `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName   *string `json:"last_name" validate:"omitnil,min=1,max=100"`
	Email      *string `json:"email" validate:"omitnil,email,max=254"`
	Position   *string `json:"position" validate:"omitnil,min=1,max=120"`
	Department *string `json:"department" validate:"omitnil,min=1,max=120"`
	DateHired  *string `json:"date_hired" validate:"omitnil,datetime=2006-01-02"`
	Status     *string `json:"status" validate:"omitnil,oneof=active on_leave terminated"`
	IsActive   *bool   `json:"is_active"`
}

func (p employeePatchRequest) patch() employees.Patch {
	out := employees.Patch{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Position:   p.Position,
		Department: p.Department,
		Status:     p.Status,
		IsActive:   p.IsActive,
	}
	if p.DateHired != nil {
		hired, _ := shared.ParseDay(*p.DateHired)
		out.DateHired = &hired
	}
	return out
}

type employeeResponse struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	DateHired  string    `json:"date_hired"`
	Status     string    `json:"status"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toResponse(emp employees.Employee) employeeResponse {
	return employeeResponse{
		ID:         emp.ID,
		UserID:     emp.UserID,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		FullName:   emp.FullName(),
		Email:      emp.Email,
		Position:   emp.Position,
		Department: emp.Department,
		DateHired:  shared.FormatDay(emp.DateHired),
		Status:     emp.Status,
		IsActive:   emp.IsActive,
		CreatedAt:  emp.CreatedAt,
		UpdatedAt:  emp.UpdatedAt,
	}
}

func toResponses(items []employees.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(items))
	for _, emp := range items {
		out = append(out, toResponse(emp))
	}
	return out
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employees.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, employees.ErrEmailTaken):
		api.FailWithDetails(w, http.StatusConflict, "email_taken", "an employee with this email already exists",
			map[string]any{"fields": []shared.ValidationIssue{{Field: "email", Reason: "is already in use"}}}, reqID)
	default:
		slog.Error("employee request failed", "op", op, "err", err, "request_id", reqID)
		shared.InternalError(w, r, "employee_"+op+"_failed", "failed to "+op+" employee")
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	filter := employees.Filter{
		Department: q.String("department"),
		Status:     q.Enum("status", employees.Statuses),
		IsActive:   q.Bool("is_active"),
		HiredFrom:  q.Day("date_hired__gte"),
		HiredTo:    q.Day("date_hired__lte"),
		Search:     q.String("search"),
		Ordering:   q.String("ordering"),
	}
	if q.Validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	items, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		h.writeError(w, r, err, "list")
		return
	}
	shared.WriteTotal(w, total)
	api.Success(w, toResponses(items), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		v := shared.NewValidator()
		v.Add("q", "search query is required")
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}
	items, err := h.Service.Search(r.Context(), term)
	if err != nil {
		h.writeError(w, r, err, "search")
		return
	}
	api.Success(w, toResponses(items), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "employeeID", "employee not found")
	if !ok {
		return
	}
	emp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "get")
		return
	}
	api.Success(w, toResponse(emp), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	res, err := h.Service.Create(r.Context(), payload.fields())
	if err != nil {
		h.writeError(w, r, err, "create")
		return
	}
	api.Created(w, struct {
		employeeResponse
		Username string `json:"username,omitempty"`
	}{toResponse(res.Employee), res.Username}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "employeeID", "employee not found")
	if !ok {
		return
	}
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Service.Update(r.Context(), id, payload.fields())
	if err != nil {
		h.writeError(w, r, err, "update")
		return
	}
	api.Success(w, toResponse(emp), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "employeeID", "employee not found")
	if !ok {
		return
	}
	var payload employeePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Service.Patch(r.Context(), id, payload.patch())
	if err != nil {
		h.writeError(w, r, err, "update")
		return
	}
	api.Success(w, toResponse(emp), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "employeeID", "employee not found")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "delete")
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "employeeID", "employee not found")
	if !ok {
		return
	}
	insights, err := h.Service.Insights(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "load")
		return
	}
	api.Success(w, map[string]any{
		"employee":    toResponse(insights.Employee),
		"attendance":  insights.Attendance,
		"performance": insights.Performance,
	}, middleware.GetRequestID(r.Context()))
}
