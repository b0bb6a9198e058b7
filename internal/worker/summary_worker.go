// Package worker keeps the denormalized per-account summary in step with
// the snapshot history, driven by AMQP events.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"billwise/internal/amqp"
)

// SummaryStore is the store slice the worker needs.
type SummaryStore interface {
	RefreshSummary(ctx context.Context, username string) error
}

type SummaryWorker struct {
	store SummaryStore
}

func NewSummaryWorker(store SummaryStore) *SummaryWorker {
	return &SummaryWorker{store: store}
}

// HandleSnapshotRecorded recomputes the lifetime totals for the account
// named in the event. Errors cause the delivery to be requeued.
func (w *SummaryWorker) HandleSnapshotRecorded(ctx context.Context, msg *amqp.SnapshotRecordedMessage) error {
	if msg.Username == "" {
		return fmt.Errorf("snapshot event missing username")
	}

	slog.InfoContext(ctx, "Processing snapshot event",
		"username", msg.Username,
		"snapshot_id", msg.SnapshotID)

	if err := w.store.RefreshSummary(ctx, msg.Username); err != nil {
		return fmt.Errorf("refresh summary for %s: %w", msg.Username, err)
	}

	return nil
}
