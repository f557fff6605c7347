package attendancehandler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/attendance"
)

const (
	employeeID = "6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f"
	recordID   = "1b2c3d4e-5f60-4718-9a0b-c1d2e3f4a5b6"
	missingID  = "00000000-0000-4000-8000-000000000000"
)

type fakeService struct {
	summaryDay *time.Time
	created    attendance.Fields
	patch      attendance.Patch
	filter     attendance.Filter
	format     string
}

func (f *fakeService) List(_ context.Context, filter attendance.Filter, _, _ int) ([]attendance.Record, int, error) {
	f.filter = filter
	return []attendance.Record{sample()}, 1, nil
}

func (f *fakeService) Get(context.Context, string) (attendance.Record, error) { return sample(), nil }

func (f *fakeService) Create(_ context.Context, fields attendance.Fields) (attendance.Record, error) {
	switch fields.EmployeeID {
	case missingID:
		return attendance.Record{}, attendance.ErrUnknownEmployee
	}
	if fields.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		return attendance.Record{}, attendance.ErrDuplicateDay
	}
	f.created = fields
	return sample(), nil
}

func (f *fakeService) Update(context.Context, string, attendance.Fields) (attendance.Record, error) {
	return sample(), nil
}

func (f *fakeService) Patch(_ context.Context, _ string, patch attendance.Patch) (attendance.Record, error) {
	f.patch = patch
	return sample(), nil
}

func (f *fakeService) Delete(_ context.Context, id string) error {
	if id == missingID {
		return attendance.ErrNotFound
	}
	return nil
}

func (f *fakeService) DailySummary(_ context.Context, day *time.Time) (attendance.DailySummary, error) {
	f.summaryDay = day
	target := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if day != nil {
		target = *day
	}
	return attendance.DailySummary{Date: target, Summary: map[string]int{"present": 2}}, nil
}

func (f *fakeService) Export(_ context.Context, filter attendance.Filter, format string, w io.Writer) error {
	f.filter, f.format = filter, format
	_, err := io.WriteString(w, "id,employee_id\n")
	return err
}

func sample() attendance.Record {
	in := "09:00:00"
	return attendance.Record{
		ID:          recordID,
		EmployeeID:  employeeID,
		Date:        time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:      attendance.StatusPresent,
		CheckInTime: &in,
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

func TestDailySummaryRejectsMalformedDate(t *testing.T) {
	for _, raw := range []string{"2024-3-1", "03/01/2024", "2024-02-30", "today"} {
		rec := serve(&fakeService{}, http.MethodGet, "/attendance/daily-summary?date="+raw, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestDailySummaryDefaultsToToday(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, http.MethodGet, "/attendance/daily-summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.summaryDay != nil {
		t.Fatal("expected nil day for default")
	}
	if !strings.Contains(rec.Body.String(), `"date":"2024-03-31"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = serve(svc, http.MethodGet, "/attendance/daily-summary?date=2024-03-05", "")
	if rec.Code != http.StatusOK || svc.summaryDay == nil || svc.summaryDay.Day() != 5 {
		t.Fatalf("expected explicit day, got %d %v", rec.Code, svc.summaryDay)
	}
}

func TestCreateNormalizesClock(t *testing.T) {
	svc := &fakeService{}
	body := `{"employee":"` + employeeID + `","date":"2024-03-04","status":"present","check_in_time":"09:00","check_out_time":""}`
	rec := serve(svc, http.MethodPost, "/attendance", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created.CheckInTime == nil || *svc.created.CheckInTime != "09:00:00" {
		t.Fatalf("expected normalized check-in, got %v", svc.created.CheckInTime)
	}
	if svc.created.CheckOutTime != nil {
		t.Fatal("blank check-out should be nil")
	}
	if !strings.Contains(rec.Body.String(), `"date":"2024-03-04"`) {
		t.Fatalf("expected plain date, got %s", rec.Body.String())
	}
}

func TestCreateErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		code int
	}{
		"bad status":       {`{"employee":"` + employeeID + `","date":"2024-03-04","status":"late"}`, http.StatusBadRequest},
		"bad clock":        {`{"employee":"` + employeeID + `","date":"2024-03-04","status":"present","check_in_time":"25:00"}`, http.StatusBadRequest},
		"unknown employee": {`{"employee":"` + missingID + `","date":"2024-03-04","status":"present"}`, http.StatusBadRequest},
		"duplicate day":    {`{"employee":"` + employeeID + `","date":"2024-03-01","status":"present"}`, http.StatusConflict},
		"bad json":         {`{"employee":`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(&fakeService{}, http.MethodPost, "/attendance", tc.body)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPatchExplicitNullClearsTime(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, http.MethodPatch, "/attendance/"+recordID, `{"check_in_time":null,"notes":"late bus"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.patch.ClearCheckIn || svc.patch.ClearCheckOut {
		t.Fatalf("unexpected clear flags %+v", svc.patch)
	}
	if svc.patch.Notes == nil || *svc.patch.Notes != "late bus" {
		t.Fatalf("expected notes patch, got %+v", svc.patch)
	}

	rec = serve(svc, http.MethodPatch, "/attendance/"+recordID, `{"check_out_time":"7pm"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed time, got %d", rec.Code)
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	rec := serve(&fakeService{}, http.MethodDelete, "/attendance/"+missingID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = serve(&fakeService{}, http.MethodDelete, "/attendance/"+recordID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestListRejectsMalformedEmployeeFilter(t *testing.T) {
	rec := serve(&fakeService{}, http.MethodGet, "/attendance?employee=42", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExportFormats(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, http.MethodGet, "/attendance/export?status=absent", "")
	if rec.Code != http.StatusOK || svc.format != attendance.FormatCSV || svc.filter.Status != "absent" {
		t.Fatalf("unexpected csv export %d %q %+v", rec.Code, svc.format, svc.filter)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}

	rec = serve(svc, http.MethodGet, "/attendance/export?format=xlsx", "")
	if svc.format != attendance.FormatXLSX || !strings.Contains(rec.Header().Get("Content-Type"), "spreadsheetml") {
		t.Fatalf("unexpected xlsx export %q", rec.Header().Get("Content-Type"))
	}

	rec = serve(svc, http.MethodGet, "/attendance/export?format=pdf", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}
