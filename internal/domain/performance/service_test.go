package performance

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, string, string, string, any, any) error { return nil }

type memoryStore struct {
	rows map[string]Review
	seq  int
}

func (m *memoryStore) Get(_ context.Context, id string) (Review, error) {
	rev, ok := m.rows[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return rev, nil
}

func (m *memoryStore) List(context.Context, Filter, int, int) ([]Review, error) {
	out := []Review{}
	for _, rev := range m.rows {
		out = append(out, rev)
	}
	return out, nil
}

func (m *memoryStore) Count(context.Context, Filter) (int, error) { return len(m.rows), nil }

func (m *memoryStore) Create(_ context.Context, f Fields) (Review, error) {
	m.seq++
	rev := Review{ID: string(rune('a' + m.seq)), EmployeeID: f.EmployeeID, ReviewPeriodStart: f.ReviewPeriodStart,
		ReviewPeriodEnd: f.ReviewPeriodEnd, ReviewerName: f.ReviewerName, Rating: f.Rating}
	m.rows[rev.ID] = rev
	return rev, nil
}

func (m *memoryStore) Update(_ context.Context, id string, f Fields) (Review, error) {
	rev := m.rows[id]
	rev.ReviewPeriodStart, rev.ReviewPeriodEnd, rev.Rating, rev.ReviewerName = f.ReviewPeriodStart, f.ReviewPeriodEnd, f.Rating, f.ReviewerName
	m.rows[id] = rev
	return rev, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memoryStore) TopPerformers(_ context.Context, limit int) ([]TopPerformer, error) {
	type agg struct {
		sum   float64
		count int
	}
	byEmployee := map[string]*agg{}
	for _, rev := range m.rows {
		a, ok := byEmployee[rev.EmployeeID]
		if !ok {
			a = &agg{}
			byEmployee[rev.EmployeeID] = a
		}
		a.sum += rev.Rating
		a.count++
	}
	out := []TopPerformer{}
	for id, a := range byEmployee {
		out = append(out, TopPerformer{EmployeeID: id, AverageRating: a.sum / float64(a.count), ReviewCount: a.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].ReviewCount > out[j].ReviewCount
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService() (*Service, *memoryStore) {
	store := &memoryStore{rows: map[string]Review{}}
	return NewService(store, passthroughTx{}, nopAudit{}), store
}

func TestCreateRejectsInvertedPeriod(t *testing.T) {
	svc, store := newTestService()
	_, err := svc.Create(context.Background(), Fields{
		EmployeeID:        "e1",
		ReviewPeriodStart: day(2024, 6, 30),
		ReviewPeriodEnd:   day(2024, 1, 1),
		Rating:            4,
	})
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("invalid review must not be stored")
	}
}

func TestValidateRatingBounds(t *testing.T) {
	base := Fields{ReviewPeriodStart: day(2024, 1, 1), ReviewPeriodEnd: day(2024, 1, 1)}
	for _, rating := range []float64{0, 2.5, 5} {
		base.Rating = rating
		if err := Validate(base); err != nil {
			t.Fatalf("rating %v: unexpected %v", rating, err)
		}
	}
	for _, rating := range []float64{-0.1, 5.01} {
		base.Rating = rating
		if err := Validate(base); !errors.Is(err, ErrRatingRange) {
			t.Fatalf("rating %v: expected ErrRatingRange, got %v", rating, err)
		}
	}
}

func TestPatchRevalidatesPeriod(t *testing.T) {
	svc, _ := newTestService()
	rev, err := svc.Create(context.Background(), Fields{EmployeeID: "e1", ReviewPeriodStart: day(2024, 1, 1), ReviewPeriodEnd: day(2024, 3, 31), Rating: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	end := day(2023, 12, 1)
	if _, err := svc.Patch(context.Background(), rev.ID, Patch{ReviewPeriodEnd: &end}); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestTopPerformersOrderingAndLimit(t *testing.T) {
	svc, _ := newTestService()
	seed := []struct {
		employee string
		rating   float64
	}{
		{"alice", 4.5}, {"alice", 4.9},
		{"bob", 4.7},
		{"carol", 3.0},
	}
	for _, s := range seed {
		if _, err := svc.Create(context.Background(), Fields{EmployeeID: s.employee, ReviewPeriodStart: day(2024, 1, 1), ReviewPeriodEnd: day(2024, 1, 31), Rating: s.rating}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	top, err := svc.TopPerformers(context.Background(), 1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(top))
	}
	if top[0].EmployeeID != "alice" || top[0].ReviewCount != 2 || top[0].AverageRating != 4.7 {
		t.Fatalf("expected alice with 2 reviews first on tie, got %+v", top[0])
	}

	all, _ := svc.TopPerformers(context.Background(), 500)
	if len(all) != 3 || all[2].EmployeeID != "carol" {
		t.Fatalf("unexpected ranking %+v", all)
	}
}

func TestClampTopLimit(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 5: 5, 50: 50, 51: 50}
	for in, want := range cases {
		if got := ClampTopLimit(in); got != want {
			t.Errorf("ClampTopLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
