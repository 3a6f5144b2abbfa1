// Package caching keeps the last spreadsheet snapshot for a bounded window.
package caching

import (
	"time"

	"github.com/proveedores/liquidaciones/database/model"

	"go.uber.org/atomic"
)

// Snapshot is one successful fetch of both worksheets. It is never mutated
// after being stored.
type Snapshot struct {
	FetchedAt time.Time
	Records   *model.RecordTable
	Users     *model.UserTable
}

// IsExpired reports whether a snapshot fetched at fetchedAt is stale at now.
// A zero fetchedAt or a non-positive ttl is always expired.
func IsExpired(now, fetchedAt time.Time, ttl time.Duration) bool {
	if fetchedAt.IsZero() || ttl <= 0 {
		return true
	}
	return !now.Before(fetchedAt.Add(ttl))
}

// Failure is the last failed fetch, kept so an outage is not retried on
// every request.
type Failure struct {
	FailedAt time.Time
	Err      error
}

// Cache holds a single global snapshot. Concurrent refreshes may race; the
// last Put wins.
type Cache struct {
	ttl      time.Duration
	backoff  time.Duration
	now      func() time.Time
	snapshot atomic.Pointer[Snapshot]
	failure  atomic.Pointer[Failure]
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// SetClock replaces the time source.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// SetFailureBackoff sets how long a failed fetch is remembered. Zero
// disables remembering failures.
func (c *Cache) SetFailureBackoff(backoff time.Duration) {
	c.backoff = backoff
}

// LastFailure returns the last failed fetch while it is inside the backoff
// window.
func (c *Cache) LastFailure() (*Failure, bool) {
	f := c.failure.Load()
	if f == nil || IsExpired(c.now(), f.FailedAt, c.backoff) {
		return nil, false
	}
	return f, true
}

// PutFailure records a failed fetch stamped with the current time.
func (c *Cache) PutFailure(err error) {
	c.failure.Store(&Failure{FailedAt: c.now(), Err: err})
}

// Get returns the stored snapshot while it is fresh.
func (c *Cache) Get() (*Snapshot, bool) {
	s := c.snapshot.Load()
	if s == nil || IsExpired(c.now(), s.FetchedAt, c.ttl) {
		return nil, false
	}
	return s, true
}

// Put stores a new snapshot stamped with the current time.
func (c *Cache) Put(records *model.RecordTable, users *model.UserTable) *Snapshot {
	s := &Snapshot{FetchedAt: c.now(), Records: records, Users: users}
	c.snapshot.Store(s)
	c.failure.Store(nil)
	return s
}
