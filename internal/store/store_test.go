package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"billwise/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotWith(food, transport int64) core.Snapshot {
	s := core.NewSnapshot()
	s[core.CategoryFood] = food
	s[core.CategoryTransport] = transport
	return s
}

func TestCreateAccountDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "alice", "secret-pass"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.CreateAccount(ctx, "alice", "other-pass")
	if !errors.Is(err, core.ErrDuplicateAccount) {
		t.Fatalf("second create: got %v, want ErrDuplicateAccount", err)
	}

	// The original credentials must be unchanged
	if err := s.VerifyCredentials(ctx, "alice", "secret-pass"); err != nil {
		t.Fatalf("original password no longer verifies: %v", err)
	}
	if err := s.VerifyCredentials(ctx, "alice", "other-pass"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("rejected password verifies: %v", err)
	}
}

func TestCreateAccountRejectsEmptyFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "", "pw"); !errors.Is(err, core.ErrEmptyUsername) {
		t.Fatalf("empty username: got %v", err)
	}
	if err := s.CreateAccount(ctx, "bob", ""); !errors.Is(err, core.ErrEmptyPassword) {
		t.Fatalf("empty password: got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "bob", "hunter2"); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"correct credentials", "bob", "hunter2", nil},
		{"wrong password", "bob", "hunter3", core.ErrInvalidCredentials},
		{"unknown account", "nobody", "hunter2", core.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.VerifyCredentials(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) && !(err == nil && tt.wantErr == nil) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppendSnapshotOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "carol", "pw123"); err != nil {
		t.Fatalf("create: %v", err)
	}

	first := snapshotWith(100, 0)
	second := snapshotWith(0, 50)

	if _, err := s.AppendSnapshot(ctx, "carol", first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if _, err := s.AppendSnapshot(ctx, "carol", second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	recs, err := s.ListSnapshots(ctx, "carol")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(recs))
	}
	if recs[0].Totals[core.CategoryFood] != 100 || recs[1].Totals[core.CategoryTransport] != 50 {
		t.Fatalf("snapshots out of order: %v", recs)
	}
	if recs[0].ID >= recs[1].ID {
		t.Fatalf("ids not ascending: %d, %d", recs[0].ID, recs[1].ID)
	}
}

func TestAppendSnapshotUnknownAccount(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AppendSnapshot(context.Background(), "ghost", core.NewSnapshot())
	if !errors.Is(err, core.ErrUnknownAccount) {
		t.Fatalf("got %v, want ErrUnknownAccount", err)
	}
}

func TestAppendSnapshotRejectsIncomplete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "dave", "pw123"); err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := core.NewSnapshot()
	delete(bad, core.CategoryOther)
	if _, err := s.AppendSnapshot(ctx, "dave", bad); err == nil {
		t.Fatal("expected validation error for incomplete snapshot")
	}
}

func TestListSnapshotsEmptyHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "erin", "pw123"); err != nil {
		t.Fatalf("create: %v", err)
	}
	recs, err := s.ListSnapshots(ctx, "erin")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d snapshots, want 0", len(recs))
	}
}

func TestRefreshAndGetSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "frank", "pw123"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// No summary row before the worker runs
	_, _, ok, err := s.GetSummary(ctx, "frank")
	if err != nil || ok {
		t.Fatalf("expected no summary, got ok=%v err=%v", ok, err)
	}

	if _, err := s.AppendSnapshot(ctx, "frank", snapshotWith(100, 20)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.AppendSnapshot(ctx, "frank", snapshotWith(30, 0)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.RefreshSummary(ctx, "frank"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	totals, count, ok, err := s.GetSummary(ctx, "frank")
	if err != nil || !ok {
		t.Fatalf("get summary: ok=%v err=%v", ok, err)
	}
	if count != 2 {
		t.Fatalf("snapshot_count = %d, want 2", count)
	}
	if totals[core.CategoryFood] != 130 || totals[core.CategoryTransport] != 20 {
		t.Fatalf("unexpected totals: %v", totals)
	}
}

func TestGetSnapshotByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, "gina", "pw123"); err != nil {
		t.Fatalf("create: %v", err)
	}
	id, err := s.AppendSnapshot(ctx, "gina", snapshotWith(7, 0))
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	rec, err := s.GetSnapshot(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Username != "gina" || rec.Totals[core.CategoryFood] != 7 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := s.GetSnapshot(ctx, id+1000); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}
