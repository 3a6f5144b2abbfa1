package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/proveedores/liquidaciones/database/model"

	"go.uber.org/atomic"
)

// StaticSource serves fixed tables. Err, when set, is returned from every
// Fetch wrapped in ErrSourceUnavailable. It also stands in for the Sheets
// source when that cannot be built, so the panel still starts and shows why.
type StaticSource struct {
	Records *model.RecordTable
	Users   *model.UserTable
	Err     error

	// Calls counts Fetch invocations. Fetch is called from concurrent requests.
	Calls atomic.Int64
}

func (s *StaticSource) Fetch(ctx context.Context) (*model.RecordTable, *model.UserTable, error) {
	s.Calls.Inc()
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if s.Err != nil {
		if errors.Is(s.Err, ErrSourceUnavailable) {
			return nil, nil, s.Err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, s.Err)
	}
	return s.Records, s.Users, nil
}
