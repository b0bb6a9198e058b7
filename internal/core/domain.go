package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is one entry of the fixed expense vocabulary.
type Category string

const (
	CategoryFees       Category = "fees"
	CategoryFood       Category = "food"
	CategoryTransport  Category = "transport"
	CategoryStationary Category = "stationary"
	CategoryOther      Category = "other"
)

// Categories is the closed vocabulary, in display order.
var Categories = []Category{
	CategoryFees,
	CategoryFood,
	CategoryTransport,
	CategoryStationary,
	CategoryOther,
}

type (
	// Snapshot holds the categorized totals of a single processed receipt.
	// Every snapshot carries all five categories; unseen ones stay zero.
	Snapshot map[Category]int64

	// SnapshotRecord is a stored snapshot with its persistence metadata.
	SnapshotRecord struct {
		ID        int64
		Username  string
		Totals    Snapshot
		CreatedAt time.Time
	}

	// Account is a registered user with an append-only snapshot history.
	Account struct {
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrUnknownAccount     = errors.New("unknown account")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNoFileSelected     = errors.New("no file selected")
	ErrEmptyUsername      = errors.New("empty username")
	ErrEmptyPassword      = errors.New("empty password")
)

// ExtractionError reports a failure of the OCR collaborator. The pipeline
// stops before categorization when it occurs.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return "extract text: " + e.Err.Error() }
func (e *ExtractionError) Unwrap() error { return e.Err }

// CategorizationError reports a failure of the generative-language
// collaborator (timeout, quota, malformed response).
type CategorizationError struct {
	Err error
}

func (e *CategorizationError) Error() string { return "categorize text: " + e.Err.Error() }
func (e *CategorizationError) Unwrap() error { return e.Err }

// NewSnapshot returns a snapshot with every category present and zeroed.
func NewSnapshot() Snapshot {
	s := make(Snapshot, len(Categories))
	for _, c := range Categories {
		s[c] = 0
	}
	return s
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for c, v := range s {
		out[c] = v
	}
	return out
}

// Total sums all category totals.
func (s Snapshot) Total() int64 {
	var total int64
	for _, v := range s {
		total += v
	}
	return total
}

func (s Snapshot) Validate() error {
	if len(s) != len(Categories) {
		return fmt.Errorf("snapshot must contain exactly %d categories, got %d", len(Categories), len(s))
	}
	for _, c := range Categories {
		v, ok := s[c]
		if !ok {
			return fmt.Errorf("snapshot missing category %q", c)
		}
		if v < 0 {
			return fmt.Errorf("negative total %d for category %q", v, c)
		}
	}
	return nil
}

// ValidateUsername checks the registration constraints on an identifier.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if len(username) > 64 {
		return errors.New("username too long (max 64 characters)")
	}
	return nil
}

// ValidatePassword checks the registration constraints on a password.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > 72 {
		// bcrypt rejects longer inputs
		return errors.New("password too long (max 72 bytes)")
	}
	return nil
}
