package storage

import (
	"context"

	"evogame/internal/model"
)

// Store archives finished runs. Lookups report a missing run as
// (zero, false, nil).
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns every archived run, newest first.
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	DeleteRun(ctx context.Context, id string) (bool, error)
}
