package lineitemstore

import (
	"context"
	"time"
)

// LineItem is one Clubspot billing row, stored as the raw upstream document
// plus sync bookkeeping.
type LineItem struct {
	ID       string
	Fields   map[string]any
	SyncedAt time.Time
}

// Store provides access to the clubspot line items collection.
type Store interface {
	// PutBatch merge-writes all items in one atomic commit: either every
	// document lands or none do.
	PutBatch(ctx context.Context, items []LineItem) error
}
