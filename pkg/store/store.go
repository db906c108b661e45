// Package store defines where tables and the time of the last API request
// are persisted.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

// Categories used by the analysis.
const (
	CategoryCombined       = "combined"
	CategoryQualifyingRuns = "qualifying_runs"
	CategoryScored         = "scored"
	CategoryPractice       = "practice_sessions"
	CategoryQualifying     = "qualifying_sessions"
	CategoryRace           = "race_sessions"
)

// TableStore writes a table to a named, categorized location. Storing a
// table with the same category and name again replaces it.
type TableStore interface {
	Store(ctx context.Context, table model.Table, category, name string) error
}

// FetchClock persists the time of the last outbound API call across
// process runs. ReadLastFetchTime returns the current time if no call was
// recorded yet.
type FetchClock interface {
	ReadLastFetchTime(ctx context.Context) (time.Time, error)
	RecordFetchTime(ctx context.Context, t time.Time) error
}

// MemoryClock is a FetchClock for a single process run.
type MemoryClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewMemoryClock() *MemoryClock {
	return &MemoryClock{now: time.Now}
}

func (c *MemoryClock) ReadLastFetchTime(ctx context.Context) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last.IsZero() {
		return c.now(), nil
	}
	return c.last, nil
}

func (c *MemoryClock) RecordFetchTime(ctx context.Context, t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = t
	return nil
}

// Discard is a TableStore that drops every table.
type Discard struct{}

func (Discard) Store(context.Context, model.Table, string, string) error { return nil }
