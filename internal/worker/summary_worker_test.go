package worker

import (
	"context"
	"errors"
	"testing"

	"billwise/internal/amqp"
)

type fakeSummaryStore struct {
	refreshed []string
	err       error
}

func (f *fakeSummaryStore) RefreshSummary(ctx context.Context, username string) error {
	if f.err != nil {
		return f.err
	}
	f.refreshed = append(f.refreshed, username)
	return nil
}

func TestHandleSnapshotRecorded(t *testing.T) {
	st := &fakeSummaryStore{}
	w := NewSummaryWorker(st)

	msg := amqp.NewSnapshotRecordedMessage("alice", 7)
	if err := w.HandleSnapshotRecorded(context.Background(), msg); err != nil {
		t.Fatalf("HandleSnapshotRecorded: %v", err)
	}
	if len(st.refreshed) != 1 || st.refreshed[0] != "alice" {
		t.Fatalf("unexpected refreshes: %v", st.refreshed)
	}
}

func TestHandleSnapshotRecordedMissingUsername(t *testing.T) {
	w := NewSummaryWorker(&fakeSummaryStore{})

	msg := &amqp.SnapshotRecordedMessage{SnapshotID: 7}
	if err := w.HandleSnapshotRecorded(context.Background(), msg); err == nil {
		t.Fatal("expected error for missing username")
	}
}

func TestHandleSnapshotRecordedStoreFailure(t *testing.T) {
	cause := errors.New("db locked")
	w := NewSummaryWorker(&fakeSummaryStore{err: cause})

	msg := amqp.NewSnapshotRecordedMessage("alice", 7)
	if err := w.HandleSnapshotRecorded(context.Background(), msg); !errors.Is(err, cause) {
		t.Fatalf("got %v, want wrapped cause", err)
	}
}
