package quota

import (
	"sync"
	"time"

	"github.com/gurjar1/gpt-researcher/pkg/logging"
)

const monthLayout = "2006-01"

// Ledger tracks per-provider request counts for the current calendar month.
// Counts reset when the month rolls over, and are persisted through a Store
// so restarts do not grant a fresh quota. All methods are safe for
// concurrent use.
type Ledger struct {
	mu     sync.Mutex
	store  Store
	logger logging.Logger
	month  string
	usage  map[string]int

	now func() time.Time
}

func NewLedger(store Store, logger logging.Logger) *Ledger {
	l := &Ledger{
		store:  store,
		logger: logger,
		usage:  make(map[string]int),
		now:    time.Now,
	}
	l.month = l.now().Format(monthLayout)
	return l
}

// Load restores persisted usage. A missing or unreadable snapshot starts the
// ledger from zero rather than failing the service. A snapshot from an
// earlier month is discarded and the reset is persisted immediately.
func (l *Ledger) Load() {
	snap, err := l.store.Load()
	if err != nil {
		l.logger.WithError(err).Warn("No persisted search usage, starting fresh")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.now().Format(monthLayout)
	l.month = current
	if snap.Month != current {
		l.logger.WithFields(logging.Fields{
			"stored_month":  snap.Month,
			"current_month": current,
		}).Info("Month rolled over, resetting search usage")
		l.usage = make(map[string]int)
		l.saveLocked()
		return
	}

	l.usage = make(map[string]int, len(snap.Usage))
	for id, count := range snap.Usage {
		l.usage[id] = count
	}
}

// Usage returns the count recorded for a provider this month. Unknown
// providers report zero.
func (l *Ledger) Usage(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	return l.usage[id]
}

// RecordUse increments a provider's count and persists the ledger. Callers
// only record providers that carry a monthly limit.
func (l *Ledger) RecordUse(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	l.usage[id]++
	l.saveLocked()
}

// Month returns the calendar month the ledger is currently tracking.
func (l *Ledger) Month() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	return l.month
}

// Snapshot returns a copy of the current ledger state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	usage := make(map[string]int, len(l.usage))
	for id, count := range l.usage {
		usage[id] = count
	}
	return Snapshot{Month: l.month, Usage: usage}
}

// rolloverLocked resets counts when the calendar month changed since the
// last operation. Callers must hold l.mu.
func (l *Ledger) rolloverLocked() {
	current := l.now().Format(monthLayout)
	if current == l.month {
		return
	}
	l.logger.WithFields(logging.Fields{
		"previous_month": l.month,
		"current_month":  current,
	}).Info("Month rolled over, resetting search usage")
	l.month = current
	l.usage = make(map[string]int)
	l.saveLocked()
}

// saveLocked persists the ledger. Persistence failures are logged and never
// interrupt request handling. Callers must hold l.mu.
func (l *Ledger) saveLocked() {
	snap := Snapshot{Month: l.month, Usage: make(map[string]int, len(l.usage))}
	for id, count := range l.usage {
		snap.Usage[id] = count
	}
	if err := l.store.Save(snap); err != nil {
		l.logger.WithError(err).Error("Failed to persist search usage")
	}
}
