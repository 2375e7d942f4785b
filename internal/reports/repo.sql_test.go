package reports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nippo-cloud/nippo/internal/shared"
)

func TestMapUniqueViolation(t *testing.T) {
	// A second report for the same employee and date maps to the
	// conflict sentinel even when the driver error is wrapped.
	dup := fmt.Errorf("insert report: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	if err := mapUniqueViolation(dup); !errors.Is(err, shared.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	fk := &pgconn.PgError{Code: "23503"}
	if err := mapUniqueViolation(fk); errors.Is(err, shared.ErrAlreadyExists) {
		t.Fatalf("foreign key violation must not map to conflict")
	}

	plain := errors.New("connection reset")
	if err := mapUniqueViolation(plain); !errors.Is(err, plain) {
		t.Fatalf("unrelated error must pass through, got %v", err)
	}
}
