package attendancehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/attendance"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter attendance.Filter, limit, offset int) ([]attendance.Record, int, error)
	Get(ctx context.Context, id string) (attendance.Record, error)
	Create(ctx context.Context, fields attendance.Fields) (attendance.Record, error)
	Update(ctx context.Context, id string, fields attendance.Fields) (attendance.Record, error)
	Patch(ctx context.Context, id string, patch attendance.Patch) (attendance.Record, error)
	Delete(ctx context.Context, id string) error
	DailySummary(ctx context.Context, day *time.Time) (attendance.DailySummary, error)
	Export(ctx context.Context, filter attendance.Filter, format string, w io.Writer) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/daily-summary", h.handleDailySummary)
		r.Get("/export", h.handleExport)
		r.Get("/{recordID}", h.handleGet)
		r.Put("/{recordID}", h.handleUpdate)
		r.Patch("/{recordID}", h.handlePatch)
		r.Delete("/{recordID}", h.handleDelete)
	})
}

type recordRequest struct {
	Employee     string  `json:"employee" validate:"required,uuid"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Status       string  `json:"status" validate:"required,oneof=present absent remote sick vacation"`
	CheckInTime  *string `json:"check_in_time" validate:"omitnil,clock"`
	CheckOutTime *string `json:"check_out_time" validate:"omitnil,clock"`
	Notes        string  `json:"notes" validate:"max=2000"`
}

func (p *recordRequest) normalize() {
	p.CheckInTime = shared.BlankToNil(p.CheckInTime)
	p.CheckOutTime = shared.BlankToNil(p.CheckOutTime)
}

func (p recordRequest) fields() attendance.Fields {
	day, _ := shared.ParseDay(p.Date)
	return attendance.Fields{
		EmployeeID:   p.Employee,
		Date:         day,
		Status:       p.Status,
		CheckInTime:  clock(p.CheckInTime),
		CheckOutTime: clock(p.CheckOutTime),
		Notes:        p.Notes,
	}
}

type recordPatchRequest struct {
	Employee     *string               `json:"employee" validate:"omitnil,uuid"`
	Date         *string               `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Status       *string               `json:"status" validate:"omitnil,oneof=present absent remote sick vacation"`
	CheckInTime  shared.NullableString `json:"check_in_time"`
	CheckOutTime shared.NullableString `json:"check_out_time"`
	Notes        *string               `json:"notes" validate:"omitnil,max=2000"`
}

func (p recordPatchRequest) validateClocks(v *shared.Validator) {
	for field, value := range map[string]shared.NullableString{"check_in_time": p.CheckInTime, "check_out_time": p.CheckOutTime} {
		if !value.Set || value.Null || value.Value == "" {
			continue
		}
		if _, err := shared.ParseClock(value.Value); err != nil {
			v.Add(field, "must be a valid time in HH:MM format")
		}
	}
}

func (p recordPatchRequest) patch() attendance.Patch {
	out := attendance.Patch{
		EmployeeID: p.Employee,
		Status:     p.Status,
		Notes:      p.Notes,
	}
	if p.Date != nil {
		day, _ := shared.ParseDay(*p.Date)
		out.Date = &day
	}
	if p.CheckInTime.Set {
		if p.CheckInTime.Null || p.CheckInTime.Value == "" {
			out.ClearCheckIn = true
		} else {
			out.CheckInTime = clock(&p.CheckInTime.Value)
		}
	}
	if p.CheckOutTime.Set {
		if p.CheckOutTime.Null || p.CheckOutTime.Value == "" {
			out.ClearCheckOut = true
		} else {
			out.CheckOutTime = clock(&p.CheckOutTime.Value)
		}
	}
	return out
}

func clock(value *string) *string {
	if value == nil {
		return nil
	}
	normalized, err := shared.ParseClock(*value)
	if err != nil {
		return nil
	}
	return &normalized
}

// RecordResponse renders a record with plain calendar dates.
type RecordResponse struct {
	ID           string    `json:"id"`
	Employee     string    `json:"employee"`
	EmployeeName string    `json:"employee_name"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	CheckInTime  *string   `json:"check_in_time"`
	CheckOutTime *string   `json:"check_out_time"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToResponse(rec attendance.Record) RecordResponse {
	return RecordResponse{
		ID:           rec.ID,
		Employee:     rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		Date:         shared.FormatDay(rec.Date),
		Status:       rec.Status,
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: rec.CheckOutTime,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func ToResponses(items []attendance.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(items))
	for _, rec := range items {
		out = append(out, ToResponse(rec))
	}
	return out
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", reqID)
	case errors.Is(err, attendance.ErrDuplicateDay):
		api.Fail(w, http.StatusConflict, "duplicate_attendance", "attendance for this employee and date already exists", reqID)
	case errors.Is(err, attendance.ErrUnknownEmployee):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "employee", Reason: "does not exist"}})
	case errors.Is(err, attendance.ErrReasonRequired):
		api.Fail(w, http.StatusBadRequest, "reason_required", "please provide a reason for the absence", reqID)
	default:
		slog.Error("attendance request failed", "op", op, "err", err, "request_id", reqID)
		shared.InternalError(w, r, "attendance_"+op+"_failed", "failed to "+op+" attendance")
	}
}

func parseFilter(q *shared.Query) attendance.Filter {
	return attendance.Filter{
		EmployeeID: q.ID("employee"),
		Status:     q.Enum("status", attendance.Statuses),
		DateAfter:  q.Day("date_after"),
		DateBefore: q.Day("date_before"),
		Search:     q.String("search"),
		Ordering:   q.String("ordering"),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	filter := parseFilter(q)
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
	api.Success(w, ToResponses(items), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	day := q.Day("date")
	if q.Validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	summary, err := h.Service.DailySummary(r.Context(), day)
	if err != nil {
		h.writeError(w, r, err, "summarize")
		return
	}
	api.Success(w, map[string]any{
		"date":    shared.FormatDay(summary.Date),
		"summary": summary.Summary,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	q := shared.NewQuery(r)
	filter := parseFilter(q)
	format := q.Enum("format", attendance.ExportFormats)
	if q.Validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if format == "" {
		format = attendance.FormatCSV
	}

	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), filter, format, &buf); err != nil {
		h.writeError(w, r, err, "export")
		return
	}
	w.Header().Set("Content-Type", attendance.ContentType(format))
	w.Header().Set("Content-Disposition", "attachment; filename=attendance."+format)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("attendance export write failed", "err", err)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "recordID", "attendance record not found")
	if !ok {
		return
	}
	rec, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "get")
		return
	}
	api.Success(w, ToResponse(rec), middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeFull(w http.ResponseWriter, r *http.Request) (recordRequest, bool) {
	var payload recordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return payload, false
	}
	payload.normalize()
	v := shared.NewValidator()
	v.Struct(payload)
	return payload, !v.Reject(w, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeFull(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.Create(r.Context(), payload.fields())
	if err != nil {
		h.writeError(w, r, err, "create")
		return
	}
	api.Created(w, ToResponse(rec), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "recordID", "attendance record not found")
	if !ok {
		return
	}
	payload, ok := h.decodeFull(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.Update(r.Context(), id, payload.fields())
	if err != nil {
		h.writeError(w, r, err, "update")
		return
	}
	api.Success(w, ToResponse(rec), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "recordID", "attendance record not found")
	if !ok {
		return
	}
	var payload recordPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		shared.DecodeFailed(w, r)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	payload.validateClocks(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.Patch(r.Context(), id, payload.patch())
	if err != nil {
		h.writeError(w, r, err, "update")
		return
	}
	api.Success(w, ToResponse(rec), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "recordID", "attendance record not found")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "delete")
		return
	}
	api.NoContent(w)
}
