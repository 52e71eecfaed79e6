package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !IsDuplicateKey(dup) {
		t.Fatalf("expected 1062 to be duplicate key")
	}
	if !IsDuplicateKey(fmt.Errorf("insert vehicle: %w", dup)) {
		t.Fatalf("expected wrapped 1062 to be duplicate key")
	}
	if IsDuplicateKey(&mysql.MySQLError{Number: 1452}) {
		t.Fatalf("1452 is not a duplicate key")
	}
	if IsDuplicateKey(errors.New("boom")) {
		t.Fatalf("plain error is not a duplicate key")
	}
}

func TestPlaceholdersAndNulls(t *testing.T) {
	if got := Placeholders(3); got != "?,?,?" {
		t.Fatalf("Placeholders(3) = %q", got)
	}
	if got := Placeholders(0); got != "" {
		t.Fatalf("Placeholders(0) = %q", got)
	}
	if NullIfEmpty("  ") != nil {
		t.Fatalf("blank string should be NULL")
	}
	if NullIfEmpty(" x ") != "x" {
		t.Fatalf("string should be trimmed")
	}
	if NullIfZero(0) != nil || NullIfZero(5) != int64(5) {
		t.Fatalf("NullIfZero mismatch")
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	want := errors.New("stop")
	got := WithTx(context.Background(), conn, func(tx *sql.Tx) error { return want })
	if !errors.Is(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithTxCommits(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE vehicles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE vehicles SET status='rented' WHERE id=1")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
