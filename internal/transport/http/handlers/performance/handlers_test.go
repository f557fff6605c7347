package performancehandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/performance"
)

const (
	employeeID = "6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f"
	reviewID   = "1b2c3d4e-5f60-4718-9a0b-c1d2e3f4a5b6"
)

type fakeService struct {
	topLimit int
	created  performance.Fields
	patch    performance.Patch
	filter   performance.Filter
}

func (f *fakeService) List(_ context.Context, filter performance.Filter, _, _ int) ([]performance.Review, int, error) {
	f.filter = filter
	return []performance.Review{sample()}, 1, nil
}

func (f *fakeService) Get(context.Context, string) (performance.Review, error) { return sample(), nil }

func (f *fakeService) Create(_ context.Context, fields performance.Fields) (performance.Review, error) {
	f.created = fields
	return sample(), nil
}

func (f *fakeService) Update(context.Context, string, performance.Fields) (performance.Review, error) {
	return sample(), nil
}

func (f *fakeService) Patch(_ context.Context, _ string, patch performance.Patch) (performance.Review, error) {
	f.patch = patch
	if patch.ReviewPeriodEnd != nil && patch.ReviewPeriodEnd.Before(sample().ReviewPeriodStart) {
		return performance.Review{}, performance.ErrInvalidPeriod
	}
	return sample(), nil
}

func (f *fakeService) Delete(context.Context, string) error { return nil }

func (f *fakeService) TopPerformers(_ context.Context, limit int) ([]performance.TopPerformer, error) {
	f.topLimit = limit
	all := []performance.TopPerformer{
		{EmployeeID: "a", EmployeeName: "Alice Smith", AverageRating: 4.7, ReviewCount: 2},
		{EmployeeID: "b", EmployeeName: "Bob Jones", AverageRating: 4.7, ReviewCount: 1},
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func sample() performance.Review {
	return performance.Review{
		ID:                reviewID,
		EmployeeID:        employeeID,
		ReviewPeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ReviewPeriodEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		ReviewerName:      "Grace",
		Rating:            4.5,
	}
}

func serve(svc *fakeService, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type issuesEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Details struct {
			Fields []struct {
				Field string `json:"field"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func fieldsOf(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var env issuesEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := []string{}
	for _, f := range env.Error.Details.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	body := `{"employee":"` + employeeID + `","review_period_start":"2024-03-01","review_period_end":"2024-02-01","reviewer_name":"Grace","rating":4}`
	rec := serve(&fakeService{}, http.MethodPost, "/performance", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields := fieldsOf(t, rec)
	if len(fields) != 1 || fields[0] != "review_period_end" {
		t.Fatalf("expected review_period_end issue, got %v", fields)
	}
}

func TestCreateRejectsRatingOutOfRange(t *testing.T) {
	for _, rating := range []string{"-0.5", "5.01"} {
		body := `{"employee":"` + employeeID + `","review_period_start":"2024-01-01","review_period_end":"2024-02-01","reviewer_name":"Grace","rating":` + rating + `}`
		rec := serve(&fakeService{}, http.MethodPost, "/performance", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("rating %s: expected 400, got %d", rating, rec.Code)
		}
	}
}

func TestCreateAcceptsBoundaryRatings(t *testing.T) {
	for _, rating := range []string{"0", "5"} {
		svc := &fakeService{}
		body := `{"employee":"` + employeeID + `","review_period_start":"2024-01-01","review_period_end":"2024-01-01","reviewer_name":"Grace","rating":` + rating + `}`
		rec := serve(svc, http.MethodPost, "/performance", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("rating %s: expected 201, got %d: %s", rating, rec.Code, rec.Body.String())
		}
	}
}

func TestPatchInvalidPeriodFromService(t *testing.T) {
	rec := serve(&fakeService{}, http.MethodPatch, "/performance/"+reviewID, `{"review_period_end":"2023-12-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields := fieldsOf(t, rec)
	if len(fields) != 1 || fields[0] != "review_period_end" {
		t.Fatalf("expected review_period_end issue, got %v", fields)
	}
}

func TestTopPerformersLimit(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, http.MethodGet, "/performance/top-performers?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env struct {
		Data struct {
			Results []performance.TopPerformer `json:"results"`
			Limit   int                        `json:"limit"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Results) != 1 || env.Data.Results[0].EmployeeID != "a" || env.Data.Limit != 1 {
		t.Fatalf("unexpected results %+v", env.Data)
	}

	cases := map[string]int{"": 5, "0": 1, "-3": 1, "500": 50, "12": 12}
	for raw, want := range cases {
		target := "/performance/top-performers"
		if raw != "" {
			target += "?limit=" + raw
		}
		if rec := serve(svc, http.MethodGet, target, ""); rec.Code != http.StatusOK || svc.topLimit != want {
			t.Fatalf("limit %q: expected %d, got %d (status %d)", raw, want, svc.topLimit, rec.Code)
		}
	}
}

func TestTopPerformersRejectsNonInteger(t *testing.T) {
	for _, raw := range []string{"abc", "2.5"} {
		rec := serve(&fakeService{}, http.MethodGet, "/performance/top-performers?limit="+raw, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestListParsesMinRating(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, http.MethodGet, "/performance?min_rating=4.5&reviewer_name=gra", "")
	if rec.Code != http.StatusOK || svc.filter.MinRating == nil || *svc.filter.MinRating != 4.5 || svc.filter.ReviewerName != "gra" {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
	if rec := serve(svc, http.MethodGet, "/performance?min_rating=high", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
