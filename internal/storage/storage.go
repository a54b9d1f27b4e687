package storage

import (
	"context"

	"mailscope/internal/model"
)

// Storage is a sink for decoded rows. Rows are keyed, so writing the same row
// twice must leave the sink unchanged.
type Storage interface {
	PutRows(ctx context.Context, rows []model.DatabaseRow) error
}
