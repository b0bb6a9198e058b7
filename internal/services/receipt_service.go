// Package services orchestrates the receipt pipeline: extract text,
// categorize it, aggregate totals, append the snapshot, announce the event.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"billwise/internal/core"
	"billwise/internal/scan"
)

type (
	// SnapshotStore is the slice of the credential store the pipeline needs.
	SnapshotStore interface {
		AppendSnapshot(ctx context.Context, username string, snap core.Snapshot) (int64, error)
	}

	// SnapshotPublisher announces recorded snapshots to the summary worker.
	SnapshotPublisher interface {
		PublishSnapshotRecorded(ctx context.Context, username string, snapshotID int64) error
	}
)

// ReceiptService runs one upload through the sequential pipeline. Each stage
// blocks until the previous one finished; a failing stage stops the run.
type ReceiptService struct {
	extractor   scan.TextExtractor
	categorizer scan.Categorizer
	store       SnapshotStore
	publisher   SnapshotPublisher
}

// NewReceiptService wires the pipeline. publisher may be nil; the event is
// then skipped and the dashboard summary stays stale until the next refresh.
func NewReceiptService(extractor scan.TextExtractor, categorizer scan.Categorizer, store SnapshotStore, publisher SnapshotPublisher) *ReceiptService {
	return &ReceiptService{
		extractor:   extractor,
		categorizer: categorizer,
		store:       store,
		publisher:   publisher,
	}
}

// ProcessReceipt extracts, categorizes and aggregates one uploaded document,
// then appends the resulting snapshot to the account's history. Extraction
// and categorization failures propagate typed so the router can tell
// collaborator failures from caller errors.
func (s *ReceiptService) ProcessReceipt(ctx context.Context, username string, upload []byte) (core.Snapshot, error) {
	text, err := s.extractor.ExtractText(ctx, upload)
	if err != nil {
		return nil, err
	}

	reply, err := s.categorizer.Categorize(ctx, text)
	if err != nil {
		return nil, err
	}

	snap := core.Aggregate(reply)

	id, err := s.store.AppendSnapshot(ctx, username, snap)
	if err != nil {
		return nil, fmt.Errorf("append snapshot: %w", err)
	}

	// Announce asynchronously processed work; the snapshot is already
	// saved, so a publish failure must not fail the upload.
	if s.publisher != nil {
		if err := s.publisher.PublishSnapshotRecorded(ctx, username, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish snapshot event",
				"username", username,
				"snapshot_id", id,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Receipt processed",
		"username", username,
		"snapshot_id", id,
		"total", snap.Total())

	return snap, nil
}
