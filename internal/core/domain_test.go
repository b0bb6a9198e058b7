package core

import (
	"errors"
	"testing"
)

func TestNewSnapshotHasAllCategoriesZeroed(t *testing.T) {
	s := NewSnapshot()
	if len(s) != 5 {
		t.Fatalf("got %d categories, want 5", len(s))
	}
	for _, c := range Categories {
		if s[c] != 0 {
			t.Fatalf("category %s: got %d, want 0", c, s[c])
		}
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(Snapshot)
		wantErr bool
	}{
		{"complete snapshot", func(Snapshot) {}, false},
		{"missing category", func(s Snapshot) { delete(s, CategoryFood) }, true},
		{"unknown category", func(s Snapshot) { s["groceries"] = 1 }, true},
		{"negative total", func(s Snapshot) { s[CategoryFees] = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnapshot()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	s := NewSnapshot()
	s[CategoryFood] = 42
	c := s.Clone()
	c[CategoryFood] = 7
	if s[CategoryFood] != 42 {
		t.Fatalf("clone mutated the original: got %d", s[CategoryFood])
	}
}

func TestSnapshotTotal(t *testing.T) {
	s := NewSnapshot()
	s[CategoryFood] = 10
	s[CategoryFees] = 5
	if got := s.Total(); got != 15 {
		t.Fatalf("Total() = %d, want 15", got)
	}
}

func TestExtractionErrorUnwrap(t *testing.T) {
	cause := errors.New("corrupt image")
	err := &ExtractionError{Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
	var ee *ExtractionError
	if !errors.As(error(err), &ee) {
		t.Fatal("expected errors.As to match ExtractionError")
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername(""); !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("empty username: got %v", err)
	}
	if err := ValidateUsername("   "); !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("blank username: got %v", err)
	}
	if err := ValidateUsername("alice"); err != nil {
		t.Fatalf("valid username: got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("empty password: got %v", err)
	}
	if err := ValidatePassword("hunter2"); err != nil {
		t.Fatalf("valid password: got %v", err)
	}
}
