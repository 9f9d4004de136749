package jobs

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobmate/jobs-service/internal/apperror"
	"jobmate/jobs-service/internal/sqlbuilder"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// ── fake pgx ───────────────────────────────────────────────────────────────

type call struct {
	sql  string
	args []any
}

// fakeDB records every statement and answers QueryRow from a queue. An empty
// queue answers pgx.ErrNoRows.
type fakeDB struct {
	calls    []call
	rows     []pgx.Row
	query    *fakeRows
	queryErr error
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.calls = append(db.calls, call{sql: sql, args: args})
	if len(db.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	r := db.rows[0]
	db.rows = db.rows[1:]
	return r
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.calls = append(db.calls, call{sql: sql, args: args})
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	if db.query == nil {
		return &fakeRows{}, nil
	}
	return db.query, nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

type fakeRows struct {
	rows   [][]any
	i      int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i < len(r.rows) {
		r.i++
		return true
	}
	return false
}

func (r *fakeRows) Scan(dest ...any) error { return assign(dest, r.rows[r.i-1]) }

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.i-1], nil }

func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: %d destinations, %d values", len(dest), len(vals))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(vals[i]))
	}
	return nil
}

func jobRow(id int, title string, salary *int, equity *string, handle string) []any {
	return []any{id, title, salary, equity, handle}
}

// ── in-memory Store ────────────────────────────────────────────────────────

// memStore mimics Repository semantics over a map.
type memStore struct {
	mu       sync.Mutex
	jobs     map[string]Job
	nextID   int
	failWith error
}

func newMemStore(seed ...Job) *memStore {
	s := &memStore{jobs: make(map[string]Job), nextID: 1}
	for _, j := range seed {
		j.ID = s.nextID
		s.nextID++
		s.jobs[j.Title] = j
	}
	return s
}

func (s *memStore) Create(_ context.Context, nj NewJob) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	if _, ok := s.jobs[nj.Title]; ok {
		return nil, apperror.Duplicate("Duplicate job: " + nj.Title)
	}
	j := Job{ID: s.nextID, Title: nj.Title, Salary: nj.Salary, Equity: nj.Equity, CompanyHandle: nj.CompanyHandle}
	s.nextID++
	s.jobs[j.Title] = j
	return &j, nil
}

func (s *memStore) FindAll(_ context.Context) ([]Job, error) {
	return s.match(func(Job) bool { return true })
}

func (s *memStore) Filter(_ context.Context, filter sqlbuilder.Fields) ([]Job, error) {
	return s.match(func(j Job) bool {
		for _, f := range filter {
			switch f.Name {
			case sqlbuilder.FilterTitleLike:
				if !strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Value.(string))) {
					return false
				}
			case sqlbuilder.FilterMinSalary:
				if j.Salary == nil || *j.Salary < f.Value.(int) {
					return false
				}
			case sqlbuilder.FilterHasEquity:
				if j.Equity == nil {
					return false
				}
				e, _ := strconv.ParseFloat(*j.Equity, 64)
				if (e != 0) != f.Value.(bool) {
					return false
				}
			}
		}
		return true
	})
}

func (s *memStore) match(keep func(Job) bool) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Title < out[b].Title })
	return out, nil
}

func (s *memStore) Get(_ context.Context, title string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	j, ok := s.jobs[title]
	if !ok {
		return nil, apperror.NotFound("No job: " + title)
	}
	return &j, nil
}

func (s *memStore) Update(_ context.Context, title string, data sqlbuilder.Fields) (*Job, error) {
	if _, err := sqlbuilder.SetClause(data, Columns); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	j, ok := s.jobs[title]
	if !ok {
		return nil, apperror.NotFound("No job: " + title)
	}
	for _, f := range data {
		switch Columns.Column(f.Name) {
		case "title":
			j.Title = f.Value.(string)
		case "company_handle":
			j.CompanyHandle = f.Value.(string)
		case "salary":
			j.Salary = nil
			if f.Value != nil {
				j.Salary = intPtr(f.Value.(int))
			}
		case "equity":
			j.Equity = nil
			if f.Value != nil {
				j.Equity = strPtr(f.Value.(string))
			}
		}
	}
	if j.Title != title {
		if _, taken := s.jobs[j.Title]; taken {
			return nil, apperror.Duplicate("Duplicate job: " + j.Title)
		}
		delete(s.jobs, title)
	}
	s.jobs[j.Title] = j
	return &j, nil
}

func (s *memStore) Remove(_ context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.jobs[title]; !ok {
		return apperror.NotFound("No job: " + title)
	}
	delete(s.jobs, title)
	return nil
}

// ── recording Publisher ────────────────────────────────────────────────────

type recordingPublisher struct {
	mu       sync.Mutex
	channels []string
	payloads []any
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return p.err
}

// seedJobs mirrors the two rows the route tests start from.
func seedJobs() []Job {
	return []Job{
		{Title: "test_job1", Salary: intPtr(1000), Equity: strPtr("0"), CompanyHandle: "c1"},
		{Title: "test_job2", Salary: intPtr(1000), Equity: strPtr("0"), CompanyHandle: "c2"},
	}
}
