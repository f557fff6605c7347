package reportshandler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/reports"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Service interface {
	Headcount(ctx context.Context) (reports.Headcount, error)
	AttendanceSummary(ctx context.Context, days int) (reports.AttendanceSummary, error)
	PerformanceSummary(ctx context.Context, days int) (reports.PerformanceSummary, error)
	EmployeeSnapshot(ctx context.Context, employeeID string) (reports.EmployeeSnapshot, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/headcount", h.handleHeadcount)
		r.Get("/attendance", h.handleAttendance)
		r.Get("/performance", h.handlePerformance)
		r.Get("/employee/{employeeID}", h.handleEmployee)
		r.Get("/employee/{employeeID}/pdf", h.handleEmployeePDF)
	})
}

// parseDays reads the optional window length. Zero means the configured default.
func parseDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	reason := ""
	switch {
	case err != nil || days <= 0:
		reason = "must be a positive integer"
	case days > reports.MaxWindowDays:
		reason = "must be at most " + strconv.Itoa(reports.MaxWindowDays)
	}
	if reason != "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "days", Reason: reason}})
		return 0, false
	}
	return days, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, report string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, reports.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, reports.ErrInvalidWindow):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "days", Reason: "must be between 1 and " + strconv.Itoa(reports.MaxWindowDays)}})
	default:
		slog.Error("report failed", "report", report, "err", err, "request_id", reqID)
		shared.InternalError(w, r, "report_failed", "failed to build "+report+" report")
	}
}

func (h *Handler) handleHeadcount(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Headcount(r.Context())
	if err != nil {
		h.writeError(w, r, err, "headcount")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttendance(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(w, r)
	if !ok {
		return
	}
	out, err := h.Service.AttendanceSummary(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err, "attendance")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(w, r)
	if !ok {
		return
	}
	out, err := h.Service.PerformanceSummary(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err, "performance")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "employeeID", "employee not found")
	if !ok {
		return
	}
	out, err := h.Service.EmployeeSnapshot(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "employee")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "employeeID", "employee not found")
	if !ok {
		return
	}
	snap, err := h.Service.EmployeeSnapshot(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "employee")
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteSnapshotPDF(&buf, snap); err != nil {
		h.writeError(w, r, err, "employee pdf")
		return
	}
	w.Header().Set("Content-Type", reports.PDFContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=employee-"+id+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("snapshot pdf write failed", "err", err)
	}
}
