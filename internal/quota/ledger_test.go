package quota

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gurjar1/gpt-researcher/pkg/logging"
)

type memStore struct {
	snap    Snapshot
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() (Snapshot, error) {
	if m.loadErr != nil {
		return Snapshot{}, m.loadErr
	}
	return m.snap, nil
}

func (m *memStore) Save(snap Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap
	m.saves++
	return nil
}

func testLedger(store Store) *Ledger {
	return NewLedger(store, logging.NewLogger())
}

func TestLedgerRecordAndUsage(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	ledger := testLedger(store)
	ledger.Load()

	if got := ledger.Usage("tavily_1"); got != 0 {
		t.Fatalf("expected zero usage for unknown provider, got %d", got)
	}
	ledger.RecordUse("tavily_1")
	ledger.RecordUse("tavily_1")
	ledger.RecordUse("brave_1")
	if got := ledger.Usage("tavily_1"); got != 2 {
		t.Fatalf("expected 2 uses, got %d", got)
	}
	if store.snap.Usage["brave_1"] != 1 {
		t.Fatalf("expected persisted brave count, got %+v", store.snap)
	}
}

func TestLedgerRestoresCurrentMonth(t *testing.T) {
	t.Parallel()

	month := time.Now().Format(monthLayout)
	store := &memStore{snap: Snapshot{Month: month, Usage: map[string]int{"serper_1": 7}}}
	ledger := testLedger(store)
	ledger.Load()

	if got := ledger.Usage("serper_1"); got != 7 {
		t.Fatalf("expected restored count 7, got %d", got)
	}
}

func TestLedgerDiscardsStaleMonth(t *testing.T) {
	t.Parallel()

	store := &memStore{snap: Snapshot{Month: "1999-12", Usage: map[string]int{"tavily_1": 999}}}
	ledger := testLedger(store)
	ledger.Load()

	if got := ledger.Usage("tavily_1"); got != 0 {
		t.Fatalf("expected stale usage discarded, got %d", got)
	}
	if store.saves == 0 {
		t.Fatal("expected reset to be persisted immediately")
	}
	if store.snap.Month == "1999-12" {
		t.Fatal("expected persisted month to advance")
	}
}

func TestLedgerRollsOverBetweenOperations(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	ledger := testLedger(store)
	ledger.Load()
	ledger.RecordUse("exa_1")

	// Jump the clock into the next month.
	ledger.now = func() time.Time { return time.Now().AddDate(0, 1, 0) }

	if got := ledger.Usage("exa_1"); got != 0 {
		t.Fatalf("expected usage reset after rollover, got %d", got)
	}
	if ledger.Month() == time.Now().Format(monthLayout) {
		t.Fatal("expected ledger month to advance")
	}
}

func TestLedgerSurvivesStoreFailures(t *testing.T) {
	t.Parallel()

	store := &memStore{loadErr: errors.New("boom"), saveErr: errors.New("boom")}
	ledger := testLedger(store)
	ledger.Load()

	ledger.RecordUse("tavily_1")
	if got := ledger.Usage("tavily_1"); got != 1 {
		t.Fatalf("expected in-memory count despite store failure, got %d", got)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "usage.json")
	store := NewFileStore(path)

	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for missing file")
	}

	snap := Snapshot{Month: "2026-09", Usage: map[string]int{"tavily_1": 3}}
	if err := store.Save(snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Month != "2026-09" || got.Usage["tavily_1"] != 3 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}
