package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := fmt.Errorf("insert snapshot: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("duplicate key value violates unique constraint")) {
			t.Fatalf("expected false for non-pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get week: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	if got := nullTimeToPtr(timePtrToNull(nil)); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}

	local := time.Date(2026, 5, 1, 14, 0, 0, 0, time.FixedZone("WIB", 7*60*60))
	got := nullTimeToPtr(timePtrToNull(&local))
	if got == nil || !got.Equal(local) || got.Location() != time.UTC {
		t.Fatalf("unexpected time: %v", got)
	}
}

func TestStringToNull(t *testing.T) {
	if stringToNull("  ").Valid {
		t.Fatalf("expected blank string to be null")
	}
	if got := nullStringToString(stringToNull(" h1 ")); got != "h1" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestAdvisoryLockKey(t *testing.T) {
	a := advisoryLockKey("weeks", "s1")
	if a != advisoryLockKey("weeks", " s1 ") {
		t.Fatalf("expected key to ignore surrounding whitespace")
	}
	if a == advisoryLockKey("snapshots", "s1") {
		t.Fatalf("expected namespaces to produce different keys")
	}
	if a < 0 {
		t.Fatalf("expected non-negative key, got %d", a)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
