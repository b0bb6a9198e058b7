package services

import (
	"context"
	"errors"
	"testing"

	"billwise/internal/core"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return f.text, f.err
}

type fakeCategorizer struct {
	reply  string
	err    error
	called bool
}

func (f *fakeCategorizer) Categorize(ctx context.Context, text string) (string, error) {
	f.called = true
	return f.reply, f.err
}

type fakeStore struct {
	appended []core.Snapshot
	username string
	err      error
}

func (f *fakeStore) AppendSnapshot(ctx context.Context, username string, snap core.Snapshot) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.username = username
	f.appended = append(f.appended, snap)
	return int64(len(f.appended)), nil
}

type fakePublisher struct {
	published int
	err       error
}

func (f *fakePublisher) PublishSnapshotRecorded(ctx context.Context, username string, snapshotID int64) error {
	f.published++
	return f.err
}

func TestProcessReceiptHappyPath(t *testing.T) {
	st := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewReceiptService(
		&fakeExtractor{text: "receipt text"},
		&fakeCategorizer{reply: "Food 200\nTransport 50"},
		st, pub)

	snap, err := svc.ProcessReceipt(context.Background(), "alice", []byte("img"))
	if err != nil {
		t.Fatalf("ProcessReceipt: %v", err)
	}
	if snap[core.CategoryFood] != 200 || snap[core.CategoryTransport] != 50 {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
	if st.username != "alice" || len(st.appended) != 1 {
		t.Fatalf("snapshot not appended for alice: %+v", st)
	}
	if pub.published != 1 {
		t.Fatalf("published = %d, want 1", pub.published)
	}
}

func TestProcessReceiptStopsAfterExtractionFailure(t *testing.T) {
	cat := &fakeCategorizer{}
	svc := NewReceiptService(
		&fakeExtractor{err: &core.ExtractionError{Err: errors.New("corrupt image")}},
		cat, &fakeStore{}, nil)

	_, err := svc.ProcessReceipt(context.Background(), "alice", []byte("img"))
	var ee *core.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("got %v, want ExtractionError", err)
	}
	if cat.called {
		t.Fatal("categorizer must not run after extraction failure")
	}
}

func TestProcessReceiptPropagatesCategorizationFailure(t *testing.T) {
	st := &fakeStore{}
	svc := NewReceiptService(
		&fakeExtractor{text: "text"},
		&fakeCategorizer{err: &core.CategorizationError{Err: errors.New("quota exceeded")}},
		st, nil)

	_, err := svc.ProcessReceipt(context.Background(), "alice", []byte("img"))
	var ce *core.CategorizationError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want CategorizationError", err)
	}
	if len(st.appended) != 0 {
		t.Fatal("nothing must be stored after categorization failure")
	}
}

func TestProcessReceiptPublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewReceiptService(
		&fakeExtractor{text: "text"},
		&fakeCategorizer{reply: "Food 10"},
		&fakeStore{}, pub)

	if _, err := svc.ProcessReceipt(context.Background(), "alice", []byte("img")); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
	if pub.published != 1 {
		t.Fatalf("published = %d, want 1", pub.published)
	}
}

func TestProcessReceiptStoreFailure(t *testing.T) {
	svc := NewReceiptService(
		&fakeExtractor{text: "text"},
		&fakeCategorizer{reply: "Food 10"},
		&fakeStore{err: core.ErrUnknownAccount}, nil)

	_, err := svc.ProcessReceipt(context.Background(), "ghost", []byte("img"))
	if !errors.Is(err, core.ErrUnknownAccount) {
		t.Fatalf("got %v, want ErrUnknownAccount", err)
	}
}

func TestProcessReceiptWithoutPublisher(t *testing.T) {
	svc := NewReceiptService(
		&fakeExtractor{text: "text"},
		&fakeCategorizer{reply: "Food 10"},
		&fakeStore{}, nil)

	if _, err := svc.ProcessReceipt(context.Background(), "alice", []byte("img")); err != nil {
		t.Fatalf("ProcessReceipt: %v", err)
	}
}
