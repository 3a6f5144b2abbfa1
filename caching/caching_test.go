package caching

import (
	"errors"
	"testing"
	"time"

	"github.com/proveedores/liquidaciones/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExpired(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		fetchedAt time.Time
		ttl       time.Duration
		expected  bool
	}{
		{name: "never fetched", now: base, fetchedAt: time.Time{}, ttl: 5 * time.Minute, expected: true},
		{name: "just fetched", now: base, fetchedAt: base, ttl: 5 * time.Minute, expected: false},
		{name: "inside window", now: base.Add(4*time.Minute + 59*time.Second), fetchedAt: base, ttl: 5 * time.Minute, expected: false},
		{name: "window boundary", now: base.Add(5 * time.Minute), fetchedAt: base, ttl: 5 * time.Minute, expected: true},
		{name: "past window", now: base.Add(time.Hour), fetchedAt: base, ttl: 5 * time.Minute, expected: true},
		{name: "zero ttl", now: base, fetchedAt: base, ttl: 0, expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExpired(tt.now, tt.fetchedAt, tt.ttl))
		})
	}
}

func TestCacheGetPut(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := NewCache(5 * time.Minute)
	c.SetClock(func() time.Time { return now })

	_, ok := c.Get()
	assert.False(t, ok)

	records := model.NewRecordTable([]string{"Proveedor"}, [][]string{{"acme"}})
	stored := c.Put(records, model.EmptyUsers())
	assert.Equal(t, now, stored.FetchedAt)

	got, ok := c.Get()
	require.True(t, ok)
	assert.Same(t, records, got.Records)

	now = now.Add(5 * time.Minute)
	_, ok = c.Get()
	assert.False(t, ok)
}

func TestCacheFailureBackoff(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := NewCache(5 * time.Minute)
	c.SetClock(func() time.Time { return now })

	// no backoff configured
	c.PutFailure(errors.New("boom"))
	_, ok := c.LastFailure()
	assert.False(t, ok)

	c.SetFailureBackoff(30 * time.Second)
	c.PutFailure(errors.New("boom"))
	f, ok := c.LastFailure()
	require.True(t, ok)
	assert.EqualError(t, f.Err, "boom")
	assert.Equal(t, now, f.FailedAt)

	now = now.Add(30 * time.Second)
	_, ok = c.LastFailure()
	assert.False(t, ok)

	// a successful fetch clears the failure
	c.PutFailure(errors.New("boom"))
	c.Put(model.EmptyRecords(), model.EmptyUsers())
	_, ok = c.LastFailure()
	assert.False(t, ok)
}
