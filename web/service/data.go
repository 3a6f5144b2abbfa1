package service

import (
	"context"
	"time"

	"github.com/proveedores/liquidaciones/caching"
	"github.com/proveedores/liquidaciones/database"
	"github.com/proveedores/liquidaciones/database/model"
	"github.com/proveedores/liquidaciones/logger"
)

// DataService serves the two worksheets through the snapshot cache.
type DataService struct {
	source  database.Source
	cache   *caching.Cache
	timeout time.Duration

	userService UserService
}

func NewDataService(source database.Source, cache *caching.Cache, timeout time.Duration) *DataService {
	return &DataService{source: source, cache: cache, timeout: timeout}
}

// LoadData returns the records and users tables. A fresh cached snapshot is
// returned without contacting the source. On any fetch failure both tables
// are empty and the error is returned for display. A failure is remembered
// for the cache's failure backoff, after which the next call tries again.
func (s *DataService) LoadData(ctx context.Context) (*model.RecordTable, *model.UserTable, error) {
	if snap, ok := s.cache.Get(); ok {
		return snap.Records, snap.Users, nil
	}
	if f, ok := s.cache.LastFailure(); ok {
		return model.EmptyRecords(), model.EmptyUsers(), f.Err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	records, users, err := s.source.Fetch(ctx)
	if err != nil {
		logger.Warning("load data failed:", err)
		s.cache.PutFailure(err)
		return model.EmptyRecords(), model.EmptyUsers(), err
	}
	if records == nil {
		records = model.EmptyRecords()
	}
	if users == nil {
		users = model.EmptyUsers()
	}

	s.cache.Put(records, users)
	logger.Infof("loaded %d records and %d users in %v", records.Len(), users.Len(), time.Since(start))
	if n := s.userService.CountPlaintextPasswords(users); n > 0 {
		logger.Warningf("%d of %d users store a plaintext password; store bcrypt hashes instead", n, users.Len())
	}
	return records, users, nil
}
