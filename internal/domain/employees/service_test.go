package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hrrecords/internal/domain/auth"
)

type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) InReadTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type recordedEvent struct {
	action, entityID string
}

type memoryAudit struct{ events []recordedEvent }

func (m *memoryAudit) Record(_ context.Context, action, _, entityID string, _, _ any) error {
	m.events = append(m.events, recordedEvent{action: action, entityID: entityID})
	return nil
}

type memoryStore struct {
	rows       map[string]Employee
	order      []string
	attendance map[string]AttendanceTotals
	reviews    map[string]PerformanceTotals
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rows:       map[string]Employee{},
		attendance: map[string]AttendanceTotals{},
		reviews:    map[string]PerformanceTotals{},
	}
}

func (m *memoryStore) Get(_ context.Context, id string) (Employee, error) {
	emp, ok := m.rows[id]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (m *memoryStore) GetByUserID(_ context.Context, userID string) (Employee, error) {
	for _, emp := range m.rows {
		if emp.UserID != nil && *emp.UserID == userID {
			return emp, nil
		}
	}
	return Employee{}, ErrNotFound
}

func (m *memoryStore) List(_ context.Context, _ Filter, limit, offset int) ([]Employee, error) {
	out := []Employee{}
	for i, id := range m.order {
		if i >= offset && len(out) < limit {
			out = append(out, m.rows[id])
		}
	}
	return out, nil
}

func (m *memoryStore) Count(context.Context, Filter) (int, error) {
	return len(m.rows), nil
}

func (m *memoryStore) Search(_ context.Context, term string, limit int) ([]Employee, error) {
	out := []Employee{}
	for _, id := range m.order {
		emp := m.rows[id]
		if strings.Contains(strings.ToLower(emp.FirstName+emp.LastName+emp.Email), strings.ToLower(term)) && len(out) < limit {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (m *memoryStore) Create(_ context.Context, f Fields) (Employee, error) {
	for _, emp := range m.rows {
		if emp.Email == f.Email {
			return Employee{}, ErrEmailTaken
		}
	}
	id := fmt.Sprintf("emp-%d", len(m.order)+1)
	emp := Employee{ID: id, FirstName: f.FirstName, LastName: f.LastName, Email: f.Email, Position: f.Position,
		Department: f.Department, DateHired: f.DateHired, Status: f.Status, IsActive: f.IsActive}
	m.rows[id] = emp
	m.order = append(m.order, id)
	return emp, nil
}

func (m *memoryStore) Update(_ context.Context, id string, f Fields) (Employee, error) {
	emp, ok := m.rows[id]
	if !ok {
		return Employee{}, ErrNotFound
	}
	emp.FirstName, emp.LastName, emp.Email = f.FirstName, f.LastName, f.Email
	emp.Position, emp.Department, emp.DateHired = f.Position, f.Department, f.DateHired
	emp.Status, emp.IsActive = f.Status, f.IsActive
	m.rows[id] = emp
	return emp, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryStore) LinkUser(_ context.Context, employeeID, userID string) error {
	emp, ok := m.rows[employeeID]
	if !ok {
		return ErrNotFound
	}
	emp.UserID = &userID
	m.rows[employeeID] = emp
	return nil
}

func (m *memoryStore) AttendanceTotals(_ context.Context, id string) (AttendanceTotals, error) {
	return m.attendance[id], nil
}

func (m *memoryStore) PerformanceTotals(_ context.Context, id string) (PerformanceTotals, error) {
	return m.reviews[id], nil
}

type memoryUsers map[string]bool

func (m memoryUsers) CreateUserIfAbsent(_ context.Context, user auth.NewUser) (string, bool, error) {
	if m[user.Username] {
		return "", false, nil
	}
	m[user.Username] = true
	return "user-" + user.Username, true, nil
}

type failingProvisioner struct{}

func (failingProvisioner) ProvisionForEmployee(context.Context, auth.ProvisionTarget) (auth.ProvisionResult, error) {
	return auth.ProvisionResult{}, errors.New("users table locked")
}

func newTestService() (*Service, *memoryStore, *memoryAudit) {
	store := newMemoryStore()
	audits := &memoryAudit{}
	provisioner := auth.NewProvisioner(memoryUsers{}, store, "employee123")
	return NewService(store, passthroughTx{}, provisioner, audits), store, audits
}

func sampleFields(email string) Fields {
	return Fields{
		FirstName:  "John",
		LastName:   "Doe",
		Email:      email,
		Position:   "Engineer",
		Department: "R&D",
		DateHired:  time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
}

func TestCreateProvisionsUniqueUsernames(t *testing.T) {
	svc, store, audits := newTestService()

	first, err := svc.Create(context.Background(), sampleFields("john@alpha.com"))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(context.Background(), sampleFields("john@beta.com"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.Username != "john" || second.Username != "john1" {
		t.Fatalf("expected john/john1, got %q/%q", first.Username, second.Username)
	}
	if first.Employee.Status != StatusActive {
		t.Fatalf("expected default status, got %q", first.Employee.Status)
	}
	stored := store.rows[second.Employee.ID]
	if stored.UserID == nil || *stored.UserID != "user-john1" {
		t.Fatalf("expected link written back, got %v", stored.UserID)
	}
	if len(audits.events) != 2 {
		t.Fatalf("expected two audit events, got %d", len(audits.events))
	}
}

type sentMail struct {
	from, to, subject, body string
}

type captureMailer struct {
	sent []sentMail
	err  error
}

func (m *captureMailer) Send(_ context.Context, from, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{from: from, to: to, subject: subject, body: body})
	return m.err
}

func TestCreateSendsCredentialNotice(t *testing.T) {
	svc, _, _ := newTestService()
	mailer := &captureMailer{}
	svc.Mailer = mailer
	svc.MailFrom = "hr@example.com"

	if _, err := svc.Create(context.Background(), sampleFields("john@alpha.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one notice, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.from != "hr@example.com" || msg.to != "john@alpha.com" || msg.subject != CredentialNoticeSubject {
		t.Fatalf("unexpected envelope %+v", msg)
	}
	if !strings.Contains(msg.body, "Username: john\n") || strings.Contains(msg.body, "employee123") {
		t.Fatalf("unexpected body %q", msg.body)
	}
}

func TestCreateSurvivesMailFailure(t *testing.T) {
	svc, store, _ := newTestService()
	svc.Mailer = &captureMailer{err: errors.New("smtp down")}

	res, err := svc.Create(context.Background(), sampleFields("ada@alpha.com"))
	if err != nil {
		t.Fatalf("mail failure must not fail create: %v", err)
	}
	if _, ok := store.rows[res.Employee.ID]; !ok || res.Username != "ada" {
		t.Fatalf("expected committed employee with credential, got %+v", res)
	}
}

func TestCreateFailsWhenProvisioningFails(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, passthroughTx{}, failingProvisioner{}, &memoryAudit{})

	if _, err := svc.Create(context.Background(), sampleFields("a@b.com")); err == nil {
		t.Fatal("expected provisioning failure to surface")
	}
}

func TestUpdateNeverProvisions(t *testing.T) {
	svc, store, _ := newTestService()
	created, err := svc.Create(context.Background(), sampleFields("jane@x.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	linked := *store.rows[created.Employee.ID].UserID

	dept := "Finance"
	updated, err := svc.Patch(context.Background(), created.Employee.ID, Patch{Department: &dept})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.Department != "Finance" || updated.FirstName != "John" {
		t.Fatalf("patch should only change department, got %+v", updated)
	}
	if *store.rows[created.Employee.ID].UserID != linked {
		t.Fatal("update must not touch the credential link")
	}
}

func TestPatchUnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Patch(context.Background(), "missing", Patch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsightsShape(t *testing.T) {
	svc, store, _ := newTestService()
	created, err := svc.Create(context.Background(), sampleFields("kim@x.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	avg := 4.7
	store.attendance[created.Employee.ID] = AttendanceTotals{TotalDays: 3, PresentDays: 2, AbsentDays: 1}
	store.reviews[created.Employee.ID] = PerformanceTotals{AverageRating: &avg, ReviewCount: 1}

	insights, err := svc.Insights(context.Background(), created.Employee.ID)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.Attendance.PresentDays != 2 || insights.Attendance.AbsentDays != 1 {
		t.Fatalf("unexpected attendance %+v", insights.Attendance)
	}
	if insights.Performance.AverageRating == nil || *insights.Performance.AverageRating != 4.7 || insights.Performance.ReviewCount != 1 {
		t.Fatalf("unexpected performance %+v", insights.Performance)
	}
}

func TestInsightsRoundsAndHandlesNoReviews(t *testing.T) {
	svc, store, _ := newTestService()
	created, _ := svc.Create(context.Background(), sampleFields("lee@x.com"))

	insights, err := svc.Insights(context.Background(), created.Employee.ID)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.Performance.AverageRating != nil {
		t.Fatalf("expected nil average without reviews, got %v", *insights.Performance.AverageRating)
	}

	avg := 13.0 / 3.0
	store.reviews[created.Employee.ID] = PerformanceTotals{AverageRating: &avg, ReviewCount: 3}
	insights, _ = svc.Insights(context.Background(), created.Employee.ID)
	if *insights.Performance.AverageRating != 4.33 {
		t.Fatalf("expected 4.33, got %v", *insights.Performance.AverageRating)
	}
}

func TestDeleteRecordsAudit(t *testing.T) {
	svc, _, audits := newTestService()
	created, _ := svc.Create(context.Background(), sampleFields("del@x.com"))
	if err := svc.Delete(context.Background(), created.Employee.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if last := audits.events[len(audits.events)-1]; last.action != "delete" {
		t.Fatalf("expected delete audit, got %+v", last)
	}
	if err := svc.Delete(context.Background(), created.Employee.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
