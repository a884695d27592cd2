// Package store persists fitted coordinate transformations and post-plot
// survey data behind a single interface with Postgres and SQLite backends.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// ErrNotFound is returned when a lookup by name matches no stored record.
var ErrNotFound = eris.New("store: not found")

// Store defines persistence for transformations and survey coverage data.
type Store interface {
	// Transformations. SaveTransform upserts by name: saving under an
	// existing name overwrites every field including the timestamp.
	SaveTransform(ctx context.Context, rec *model.TransformRecord) error
	GetTransform(ctx context.Context, name string) (*model.TransformRecord, error)
	ListTransforms(ctx context.Context) ([]model.TransformInfo, error)

	// Survey data. Source points are the full planned shot listing per
	// swath; deployments mark shotpoints actually acquired.
	InsertSourcePoints(ctx context.Context, swath int, points []model.TransformedPoint, uploadedBy string) (int64, error)
	InsertDeployments(ctx context.Context, swath int, recs []model.AcquisitionRecord) (int64, error)

	// Coverage supply for gap detection: every known shotpoint on a line,
	// ordered ascending, flagged with whether a deployment exists.
	LineCoverage(ctx context.Context, line int64) ([]model.CoverageRecord, error)
	Lines(ctx context.Context) ([]int64, error)
	SwathLines(ctx context.Context, swath int) ([]int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
