package audithandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/auth"
	"hrrecords/internal/transport/http/middleware"
)

type fakeService struct {
	filter audit.Filter
}

func (f *fakeService) Count(_ context.Context, filter audit.Filter) (int, error) {
	f.filter = filter
	return 1, nil
}

func (f *fakeService) List(_ context.Context, filter audit.Filter, _, _ int) ([]audit.Event, error) {
	f.filter = filter
	actor := "u1"
	return []audit.Event{{
		ID:         "a1",
		ActorID:    &actor,
		Action:     audit.ActionCreate,
		EntityType: "employee",
		EntityID:   "e1",
		CreatedAt:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}}, nil
}

func serve(svc *fakeService, user *auth.UserContext, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), *user)))
			})
		})
	}
	NewHandler(svc).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestAuditRequiresStaff(t *testing.T) {
	if rec := serve(&fakeService{}, nil, "/audit/events"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := serve(&fakeService{}, &auth.UserContext{UserID: "u2"}, "/audit/events"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuditListFilters(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, &auth.UserContext{UserID: "u1", IsStaff: true}, "/audit/events?entity_type=employee&entity_id=e1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.filter.EntityType != "employee" || svc.filter.EntityID != "e1" {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
	if rec.Header().Get("X-Total-Count") != "1" {
		t.Fatalf("expected total header, got %q", rec.Header().Get("X-Total-Count"))
	}
}

func TestAuditExportCSV(t *testing.T) {
	rec := serve(&fakeService{}, &auth.UserContext{UserID: "u1", IsStaff: true}, "/audit/events/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || lines[1] != "a1,u1,create,employee,e1,,2024-03-01T09:00:00Z" {
		t.Fatalf("unexpected csv %q", rec.Body.String())
	}
}
