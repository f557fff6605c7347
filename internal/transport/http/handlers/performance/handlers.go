package performancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/performance"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter performance.Filter, limit, offset int) ([]performance.Review, int, error)
	Get(ctx context.Context, id string) (performance.Review, error)
	Create(ctx context.Context, fields performance.Fields) (performance.Review, error)
	Update(ctx context.Context, id string, fields performance.Fields) (performance.Review, error)
	Patch(ctx context.Context, id string, patch performance.Patch) (performance.Review, error)
	Delete(ctx context.Context, id string) error
	TopPerformers(ctx context.Context, limit int) ([]performance.TopPerformer, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/top-performers", h.handleTopPerformers)
		r.Get("/{reviewID}", h.handleGet)
		r.Put("/{reviewID}", h.handleUpdate)
		r.Patch("/{reviewID}", h.handlePatch)
		r.Delete("/{reviewID}", h.handleDelete)
	})
}

type reviewRequest struct {
	Employee          string   `json:"employee" validate:"required,uuid"`
	ReviewPeriodStart string   `json:"review_period_start" validate:"required,datetime=2006-01-02"`
	ReviewPeriodEnd   string   `json:"review_period_end" validate:"required,datetime=2006-01-02"`
	ReviewerName      string   `json:"reviewer_name" validate:"required,max=120"`
	Rating            *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Strengths         string   `json:"strengths"`
	Improvements      string   `json:"improvements"`
	Goals             string   `json:"goals"`
	OverallSummary    string   `json:"overall_summary"`
}

func (p reviewRequest) fields() performance.Fields {
	start, _ := shared.ParseDay(p.ReviewPeriodStart)
	end, _ := shared.ParseDay(p.ReviewPeriodEnd)
	var rating float64
	if p.Rating != nil {
		rating = *p.Rating
	}
	return performance.Fields{
		EmployeeID:        p.Employee,
		ReviewPeriodStart: start,
		ReviewPeriodEnd:   end,
		ReviewerName:      p.ReviewerName,
		Rating:            rating,
		Strengths:         p.Strengths,
		Improvements:      p.Improvements,
		Goals:             p.Goals,
		OverallSummary:    p.OverallSummary,
	}
}

type reviewPatchRequest struct {
	Employee          *string  `json:"employee" validate:"omitnil,uuid"`
	ReviewPeriodStart *string  `json:"review_period_start" validate:"omitnil,datetime=2006-01-02"`
	ReviewPeriodEnd   *string  `json:"review_period_end" validate:"omitnil,datetime=2006-01-02"`
	ReviewerName      *string  `json:"reviewer_name" validate:"omitnil,min=1,max=120"`
	Rating            *float64 `json:"rating" validate:"omitnil,gte=0,lte=5"`
	Strengths         *string  `json:"strengths"`
	Improvements      *string  `json:"improvements"`
	Goals             *string  `json:"goals"`
	OverallSummary    *string  `json:"overall_summary"`
}

func (p reviewPatchRequest) patch() performance.Patch {
	out := performance.Patch{
		EmployeeID:     p.Employee,
		ReviewerName:   p.ReviewerName,
		Rating:         p.Rating,
		Strengths:      p.Strengths,
		Improvements:   p.Improvements,
		Goals:          p.Goals,
		OverallSummary: p.OverallSummary,
	}
	if p.ReviewPeriodStart != nil {
		start, _ := shared.ParseDay(*p.ReviewPeriodStart)
		out.ReviewPeriodStart = &start
	}
	if p.ReviewPeriodEnd != nil {
		end, _ := shared.ParseDay(*p.ReviewPeriodEnd)
		out.ReviewPeriodEnd = &end
	}
	return out
}

type reviewResponse struct {
	ID                string    `json:"id"`
	Employee          string    `json:"employee"`
	EmployeeName      string    `json:"employee_name"`
	ReviewPeriodStart string    `json:"review_period_start"`
	ReviewPeriodEnd   string    `json:"review_period_end"`
	ReviewerName      string    `json:"reviewer_name"`
	Rating            float64   `json:"rating"`
	Strengths         string    `json:"strengths"`
	Improvements      string    `json:"improvements"`
	Goals             string    `json:"goals"`
	OverallSummary    string    `json:"overall_summary"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toResponse(rev performance.Review) reviewResponse {
	return reviewResponse{
		ID:                rev.ID,
		Employee:          rev.EmployeeID,
		EmployeeName:      rev.EmployeeName,
		ReviewPeriodStart: shared.FormatDay(rev.ReviewPeriodStart),
		ReviewPeriodEnd:   shared.FormatDay(rev.ReviewPeriodEnd),
		ReviewerName:      rev.ReviewerName,
		Rating:            rev.Rating,
		Strengths:         rev.Strengths,
		Improvements:      rev.Improvements,
		Goals:             rev.Goals,
		OverallSummary:    rev.OverallSummary,
		CreatedAt:         rev.CreatedAt,
		UpdatedAt:         rev.UpdatedAt,
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, performance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "performance review not found", reqID)
	case errors.Is(err, performance.ErrInvalidPeriod):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "review_period_end", Reason: "must be on or after review_period_start"}})
	case errors.Is(err, performance.ErrRatingRange):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "rating", Reason: "must be between 0 and 5"}})
	case errors.Is(err, performance.ErrUnknownEmployee):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "employee", Reason: "does not exist"}})
	default:
		slog.Error("performance request failed", "op", op, "err", err, "request_id", reqID)
		shared.InternalError(w, r, "review_"+op+"_failed", "failed to "+op+" performance review")
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	filter := performance.Filter{
		EmployeeID:       q.ID("employee"),
		ReviewerName:     q.String("reviewer_name"),
		PeriodStartAfter: q.Day("period_start_after"),
		PeriodEndBefore:  q.Day("period_end_before"),
		MinRating:        q.Float("min_rating"),
		Search:           q.String("search"),
		Ordering:         q.String("ordering"),
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
	out := make([]reviewResponse, 0, len(items))
	for _, rev := range items {
		out = append(out, toResponse(rev))
	}
	shared.WriteTotal(w, total)
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTopPerformers(w http.ResponseWriter, r *http.Request) {
	limit := performance.DefaultTopPerformers
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "limit", Reason: "must be an integer"}})
			return
		}
		limit = parsed
	}
	limit = performance.ClampTopLimit(limit)

	items, err := h.Service.TopPerformers(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err, "rank")
		return
	}
	api.Success(w, map[string]any{"results": items, "limit": limit}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "reviewID", "performance review not found")
	if !ok {
		return
	}
	rev, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "get")
		return
	}
	api.Success(w, toResponse(rev), middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeFull(w http.ResponseWriter, r *http.Request) (reviewRequest, bool) {
	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return payload, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if !v.HasIssues() {
		f := payload.fields()
		v.DateOrder("review_period_start", f.ReviewPeriodStart, "review_period_end", f.ReviewPeriodEnd)
	}
	return payload, !v.Reject(w, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeFull(w, r)
	if !ok {
		return
	}
	rev, err := h.Service.Create(r.Context(), payload.fields())
	if err != nil {
		h.writeError(w, r, err, "create")
		return
	}
	api.Created(w, toResponse(rev), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "reviewID", "performance review not found")
	if !ok {
		return
	}
	payload, ok := h.decodeFull(w, r)
	if !ok {
		return
	}
	rev, err := h.Service.Update(r.Context(), id, payload.fields())
	if err != nil {
		h.writeError(w, r, err, "update")
		return
	}
	api.Success(w, toResponse(rev), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "reviewID", "performance review not found")
	if !ok {
		return
	}
	var payload reviewPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rev, err := h.Service.Patch(r.Context(), id, payload.patch())
	if err != nil {
		h.writeError(w, r, err, "update")
		return
	}
	api.Success(w, toResponse(rev), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "reviewID", "performance review not found")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "delete")
		return
	}
	api.NoContent(w)
}
