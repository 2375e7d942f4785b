package employees

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nippo-cloud/nippo/internal/shared"
)

func TestMapUniqueViolation(t *testing.T) {
	// The driver error arrives wrapped; errors.As must still find it.
	dup := fmt.Errorf("insert employee: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key value"})
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
