package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/proveedores/liquidaciones/caching"
	"github.com/proveedores/liquidaciones/database"
	"github.com/proveedores/liquidaciones/database/model"
	"github.com/proveedores/liquidaciones/web/service"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func TestRefreshSourceJob(t *testing.T) {
	source := &database.StaticSource{Err: errors.New("quota exceeded")}
	cache := caching.NewCache(time.Minute)
	j := NewRefreshSourceJob(service.NewDataService(source, cache, time.Second))

	j.Run()
	j.Run()
	assert.Equal(t, 2, j.Failures())
	assert.EqualValues(t, 2, source.Calls.Load())

	source.Err = nil
	source.Records = model.NewRecordTable([]string{"Proveedor", "Estado"}, [][]string{{"acme", "Pagado"}})
	source.Users = model.EmptyUsers()
	j.Run()
	assert.Equal(t, 0, j.Failures())
	assert.EqualValues(t, 3, source.Calls.Load())

	// a fresh snapshot is served from the cache
	j.Run()
	assert.EqualValues(t, 3, source.Calls.Load())
	snap, ok := cache.Get()
	assert.True(t, ok)
	assert.Equal(t, 1, snap.Records.Len())
}

// blockingSource holds every Fetch until release is closed.
type blockingSource struct {
	release chan struct{}
	calls   atomic.Int64
}

func (s *blockingSource) Fetch(ctx context.Context) (*model.RecordTable, *model.UserTable, error) {
	s.calls.Inc()
	select {
	case <-s.release:
		return model.EmptyRecords(), model.EmptyUsers(), nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

func TestRefreshSourceJobSkipsOverlappingRuns(t *testing.T) {
	source := &blockingSource{release: make(chan struct{})}
	svc := service.NewDataService(source, caching.NewCache(time.Minute), 5*time.Second)
	run := cron.NewChain(jobWrappers()...).Then(NewRefreshSourceJob(svc))

	done := make(chan struct{})
	go func() {
		run.Run()
		close(done)
	}()
	assert.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// the first run is still fetching, so this one returns without a fetch
	run.Run()
	assert.EqualValues(t, 1, source.calls.Load())

	close(source.release)
	<-done
	assert.EqualValues(t, 1, source.calls.Load())
}
