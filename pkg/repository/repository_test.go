package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/moodlog/pkg/repository"
)

var (
	errNotFound  = errors.New("mood record not found")
	errDuplicate = errors.New("duplicate mood record")
)

func TestMapError(t *testing.T) {
	fkViolation := &pgconn.PgError{Code: "23503"}
	refused := errors.New("connection refused")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"other pg error", fkViolation, fkViolation},
		{"driver error", refused, refused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.in, errNotFound, errDuplicate); got != tt.want {
				t.Errorf("MapError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

type result int64

func (r result) LastInsertId() (int64, error) { return 0, errors.New("unsupported") }
func (r result) RowsAffected() (int64, error) { return int64(r), nil }

type executor struct {
	affected int64
	err      error
	query    string
	args     []any
}

func (e *executor) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	e.query, e.args = query, args
	if e.err != nil {
		return nil, e.err
	}
	return result(e.affected), nil
}

func TestExecCount(t *testing.T) {
	tests := []struct {
		name     string
		exec     *executor
		want     int64
		wantFail bool
	}{
		{name: "deleted", exec: &executor{affected: 1}, want: 1},
		{name: "already gone", exec: &executor{}, want: 0},
		{name: "driver error", exec: &executor{err: errors.New("broken pipe")}, wantFail: true},
	}

	const stmt = "DELETE FROM public.mood_entries WHERE id = $1"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.ExecCount(context.Background(), tt.exec, stmt, "3f1c")
			if (err != nil) != tt.wantFail {
				t.Fatalf("err = %v, wantFail %v", err, tt.wantFail)
			}
			if got != tt.want {
				t.Errorf("affected = %d, want %d", got, tt.want)
			}
			if tt.exec.query != stmt || len(tt.exec.args) != 1 {
				t.Errorf("executed %q with %v", tt.exec.query, tt.exec.args)
			}
		})
	}
}
