package guard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory versioned rows
// ---------------------------------------------------------------------------

type row struct {
	value   string
	version int64
}

type memTable struct {
	mu   sync.Mutex
	rows map[int64]*row
}

func newMemTable() *memTable {
	return &memTable{rows: map[int64]*row{1: {value: "v0", version: 1}}}
}

func (m *memTable) update(id, expected int64, value string) WriteFunc {
	return func(context.Context) (bool, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		r, ok := m.rows[id]
		if !ok || r.version != expected {
			return false, nil
		}
		r.value = value
		r.version++
		return true, nil
	}
}

func (m *memTable) delete(id, expected int64) WriteFunc {
	return func(context.Context) (bool, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		r, ok := m.rows[id]
		if !ok || r.version != expected {
			return false, nil
		}
		delete(m.rows, id)
		return true, nil
	}
}

func (m *memTable) probe(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return 0, domain.ErrPostNotFound
	}
	return r.version, nil
}

var ref = domain.ResourceRef{Kind: domain.KindPost, ID: 1}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCommit_Committed(t *testing.T) {
	tbl := newMemTable()
	g := New(zerolog.Nop())

	got, err := g.Commit(context.Background(), ref, 1, tbl.update(1, 1, "v1"), tbl.probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.OutcomeCommitted {
		t.Fatalf("expected committed, got %s", got)
	}
	if tbl.rows[1].version != 2 || tbl.rows[1].value != "v1" {
		t.Errorf("unexpected row after commit: %+v", tbl.rows[1])
	}
}

func TestCommit_ConcurrentUpdateIsConflict(t *testing.T) {
	tbl := newMemTable()
	g := New(zerolog.Nop())

	// Another actor commits first, advancing T0 → T1.
	if _, err := g.Commit(context.Background(), ref, 1, tbl.update(1, 1, "theirs"), tbl.probe); err != nil {
		t.Fatal(err)
	}

	got, err := g.Commit(context.Background(), ref, 1, tbl.update(1, 1, "mine"), tbl.probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.OutcomeConcurrencyConflict {
		t.Fatalf("expected concurrency_conflict, got %s", got)
	}
	if tbl.rows[1].value != "theirs" {
		t.Errorf("stored value must reflect only the winning write, got %q", tbl.rows[1].value)
	}
}

func TestCommit_ConcurrentDeleteIsNotFound(t *testing.T) {
	tbl := newMemTable()
	g := New(zerolog.Nop())

	delete(tbl.rows, 1)

	got, err := g.Commit(context.Background(), ref, 1, tbl.update(1, 1, "mine"), tbl.probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.OutcomeNotFound {
		t.Fatalf("expected not_found, got %s", got)
	}
}

func TestCommit_DeleteAlreadyGoneIsNotFound(t *testing.T) {
	tbl := newMemTable()
	g := New(zerolog.Nop())

	if got, _ := g.Commit(context.Background(), ref, 1, tbl.delete(1, 1), tbl.probe); got != domain.OutcomeCommitted {
		t.Fatalf("first delete: expected committed, got %s", got)
	}
	got, err := g.Commit(context.Background(), ref, 1, tbl.delete(1, 1), tbl.probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.OutcomeNotFound {
		t.Fatalf("second delete: expected not_found, got %s", got)
	}
}

func TestCommit_DeleteWithStaleTokenIsConflict(t *testing.T) {
	tbl := newMemTable()
	tbl.rows[1].version = 5
	g := New(zerolog.Nop())

	got, _ := g.Commit(context.Background(), ref, 4, tbl.delete(1, 4), tbl.probe)
	if got != domain.OutcomeConcurrencyConflict {
		t.Fatalf("expected concurrency_conflict, got %s", got)
	}
	if _, ok := tbl.rows[1]; !ok {
		t.Error("row must survive a rejected delete")
	}
}

func TestCommit_WriteErrorIsFatal(t *testing.T) {
	g := New(zerolog.Nop())
	boom := errors.New("connection reset")

	probed := false
	_, err := g.Commit(context.Background(), ref, 1,
		func(context.Context) (bool, error) { return false, boom },
		func(context.Context, int64) (int64, error) { probed = true; return 0, nil },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error to propagate, got %v", err)
	}
	if probed {
		t.Error("probe must not run after a failed write")
	}
}

func TestCommit_ProbeErrorIsFatal(t *testing.T) {
	g := New(zerolog.Nop())
	boom := errors.New("timeout")

	_, err := g.Commit(context.Background(), ref, 1,
		func(context.Context) (bool, error) { return false, nil },
		func(context.Context, int64) (int64, error) { return 0, boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected probe error to propagate, got %v", err)
	}
}

func TestCommit_AtMostOneConcurrentWriterWins(t *testing.T) {
	tbl := newMemTable()
	g := New(zerolog.Nop())

	const writers = 16
	outcomes := make(chan domain.Outcome, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := g.Commit(context.Background(), ref, 1, tbl.update(1, 1, "w"), tbl.probe)
			if err != nil {
				t.Error(err)
			}
			outcomes <- o
		}()
	}
	wg.Wait()
	close(outcomes)

	committed, conflicts := 0, 0
	for o := range outcomes {
		switch o {
		case domain.OutcomeCommitted:
			committed++
		case domain.OutcomeConcurrencyConflict:
			conflicts++
		default:
			t.Errorf("unexpected outcome %s", o)
		}
	}
	if committed != 1 || conflicts != writers-1 {
		t.Errorf("expected 1 commit and %d conflicts, got %d and %d", writers-1, committed, conflicts)
	}
}
