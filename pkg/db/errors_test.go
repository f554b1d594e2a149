package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPgconn(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "merchants_user_id_key"}

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic match")
	}
	if !IsUniqueViolation(err, "merchants_user_id_key") {
		t.Fatal("expected constraint match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("expected mismatch on different constraint")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation should not match")
	}
}

func TestIsUniqueViolationPq(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "identities_email_key"}

	if !IsUniqueViolation(err, "identities_email_key") {
		t.Fatal("expected constraint match")
	}
	if IsUniqueViolation(&pq.Error{Code: "40001"}, "") {
		t.Fatal("serialization failure should not match")
	}
}

func TestIsUniqueViolationMessageFallback(t *testing.T) {
	sqliteErr := errors.New("UNIQUE constraint failed: merchants.user_id")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected sqlite message to match")
	}
	if !IsUniqueViolation(sqliteErr, "merchants.user_id") {
		t.Fatal("expected sqlite column path to match")
	}

	wrapped := fmt.Errorf("create: %w", errors.New(`duplicate key value violates unique constraint "identities_email_key"`))
	if !IsUniqueViolation(wrapped, "identities_email_key") {
		t.Fatal("expected wrapped postgres message to match")
	}

	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error should not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
}
