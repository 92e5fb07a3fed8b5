// Package store persists charts submitted to the render service.
//
// Charts are immutable once saved and addressed by a random UUID. Two
// backends implement [Store]: [Memory] for tests and single-process use, and
// [Mongo] for deployments. [Cached] puts a [cache.Cache] in front of either.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Store saves and loads charts.
type Store interface {
	// Save stores c under a new id and returns the id.
	Save(ctx context.Context, c chart.Chart) (string, error)

	// Get loads a chart. Unknown ids fail with errors.ErrCodeChartNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a chart. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Record is a stored chart.
type Record struct {
	ID        string      `json:"id" bson:"_id"`
	Chart     chart.Chart `json:"chart" bson:"chart"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// NewID returns a fresh chart id.
func NewID() string {
	return uuid.NewString()
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeChartNotFound, "chart %s not found", id)
}

func checkID(id string) error {
	return errors.ValidateChartID(id)
}
