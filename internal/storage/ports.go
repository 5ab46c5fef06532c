// Package storage persists spending records per owner.
package storage

import (
	"context"

	"spese/internal/core"
)

// RecordStore is the persistence contract used by the record service.
// Amounts are stored in the base currency. Update and Delete match on record
// ID and owner and report false when nothing matched.
type RecordStore interface {
	ListForOwner(ctx context.Context, ownerID int64) ([]core.Record, error)
	Save(ctx context.Context, r core.Record, ownerID int64) (int64, error)
	Update(ctx context.Context, r core.Record, ownerID int64) (bool, error)
	Delete(ctx context.Context, r core.Record, ownerID int64) (bool, error)
	ClearAll(ctx context.Context, ownerID int64) error
}

// Pinger is implemented by stores that can report their readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
