package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store with commit/rollback semantics
// ---------------------------------------------------------------------------

type stubStore struct {
	rows      map[int64]*domain.Employee
	nextID    int64
	commits   int
	rollbacks int
	updates   int
	listErr   error
}

func newStubStore() *stubStore {
	return &stubStore{rows: make(map[int64]*domain.Employee), nextID: 1}
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Age != nil {
		age := *e.Age
		clone.Age = &age
	}
	return &clone
}

// Execute runs fn against a private copy of the rows and publishes the copy
// only when fn succeeds on a live context.
func (s *stubStore) Execute(ctx context.Context, fn func(ctx context.Context, repo ports.EmployeeRepository) error) error {
	tx := &stubRepo{
		rows:    make(map[int64]*domain.Employee, len(s.rows)),
		nextID:  s.nextID,
		listErr: s.listErr,
		updates: &s.updates,
	}
	for id, e := range s.rows {
		tx.rows[id] = cloneEmployee(e)
	}

	if err := fn(ctx, tx); err != nil {
		s.rollbacks++
		return err
	}
	if err := ctx.Err(); err != nil {
		s.rollbacks++
		return err
	}

	s.rows = tx.rows
	s.nextID = tx.nextID
	s.commits++
	return nil
}

type stubRepo struct {
	rows    map[int64]*domain.Employee
	nextID  int64
	listErr error
	updates *int
}

func (r *stubRepo) Create(_ context.Context, e *domain.Employee) error {
	for _, existing := range r.rows {
		if existing.Email == e.Email {
			return domain.ErrEmployeeExists
		}
	}
	e.ID = r.nextID
	r.nextID++
	r.rows[e.ID] = cloneEmployee(e)
	return nil
}

func (r *stubRepo) FindByID(_ context.Context, id int64) (*domain.Employee, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (r *stubRepo) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	for _, e := range r.rows {
		if e.Email == email {
			return cloneEmployee(e), nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

func (r *stubRepo) List(_ context.Context) ([]*domain.Employee, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, cloneEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, e *domain.Employee) error {
	*r.updates++
	if _, ok := r.rows[e.ID]; !ok {
		return domain.ErrEmployeeNotFound
	}
	r.rows[e.ID] = cloneEmployee(e)
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.rows, id)
	return nil
}

// ---------------------------------------------------------------------------
// Fast deterministic collaborators
// ---------------------------------------------------------------------------

// plainHasher is reversible on purpose; the real schemes are covered by the auth adapter tests.
type plainHasher struct {
	calls    int
	verified []string
}

func (h *plainHasher) Hash(password string) (string, error) {
	h.calls++
	return "plain$" + password, nil
}

func (h *plainHasher) Verify(password, encoded string) bool {
	h.verified = append(h.verified, encoded)
	return encoded == "plain$"+password
}

type stubTokens struct {
	issued  map[string]string
	expired map[string]bool
}

func newStubTokens() *stubTokens {
	return &stubTokens{issued: make(map[string]string), expired: make(map[string]bool)}
}

func (s *stubTokens) Issue(subject string) (string, time.Time, error) {
	return s.IssueWithTTL(subject, time.Hour)
}

func (s *stubTokens) IssueWithTTL(subject string, ttl time.Duration) (string, time.Time, error) {
	token := "tok-" + subject
	s.issued[token] = subject
	if ttl <= 0 {
		s.expired[token] = true
	}
	return token, time.Now().Add(ttl), nil
}

func (s *stubTokens) Validate(token string) (string, error) {
	subject, ok := s.issued[token]
	if !ok || s.expired[token] {
		return "", domain.ErrUnauthorized
	}
	return subject, nil
}

var discardLogger = zerolog.Nop()

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedEmployee(t *testing.T, store *stubStore, email string, role domain.Role, password string) *domain.Employee {
	t.Helper()
	e := &domain.Employee{
		Email:        email,
		Name:         "Seed " + email,
		EntryDate:    date(2023, 5, 1),
		Pay:          500,
		Role:         role,
		PasswordHash: "plain$" + password,
	}
	err := store.Execute(context.Background(), func(ctx context.Context, repo ports.EmployeeRepository) error {
		return repo.Create(ctx, e)
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return e
}
