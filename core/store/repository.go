package store

import (
	"context"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
)

// Repository wraps one backend table. Calls never return a bare error:
// failures are logged and carried by the Result.
type Repository[T any, P any] struct {
	name   string
	table  academy.Table[T, P]
	status *Status
	log    core.Logger
}

func NewRepository[T any, P any](name string, table academy.Table[T, P], status *Status, logger core.Logger) *Repository[T, P] {
	return &Repository[T, P]{name: name, table: table, status: status, log: logger}
}

func (repo *Repository[T, P]) fail(op string, err error) error {
	rerr := &RemoteError{Op: op, Table: repo.name, Err: err}
	repo.status.setError(rerr)
	repo.log.Error("remote call failed", rerr)
	return rerr
}

// List returns the rows matching filter. On failure Value is an empty list.
func (repo *Repository[T, P]) List(ctx context.Context, filter academy.Filter) Result[[]T] {
	repo.status.begin()
	defer repo.status.end()

	rows, err := repo.table.Select(ctx, filter)
	if err != nil {
		return Result[[]T]{Value: []T{}, Err: repo.fail("list", err)}
	}
	if rows == nil {
		rows = []T{}
	}
	return Result[[]T]{Value: rows}
}

func (repo *Repository[T, P]) Create(ctx context.Context, row T) Result[T] {
	repo.status.begin()
	defer repo.status.end()

	created, err := repo.table.Insert(ctx, row)
	if err != nil {
		return Result[T]{Err: repo.fail("create", err)}
	}
	return Result[T]{Value: created}
}

func (repo *Repository[T, P]) Update(ctx context.Context, id string, patch P) Result[T] {
	repo.status.begin()
	defer repo.status.end()

	updated, err := repo.table.Update(ctx, id, patch)
	if err != nil {
		return Result[T]{Err: repo.fail("update", err)}
	}
	return Result[T]{Value: updated}
}

// Delete reports true once the row is gone.
func (repo *Repository[T, P]) Delete(ctx context.Context, id string) Result[bool] {
	repo.status.begin()
	defer repo.status.end()

	if err := repo.table.Delete(ctx, id); err != nil {
		return Result[bool]{Err: repo.fail("delete", err)}
	}
	return Result[bool]{Value: true}
}

// AttendanceRepository wraps the attendance table, whose writes are upserts.
type AttendanceRepository struct {
	table  academy.AttendanceTable
	status *Status
	log    core.Logger
}

func NewAttendanceRepository(table academy.AttendanceTable, status *Status, logger core.Logger) *AttendanceRepository {
	return &AttendanceRepository{table: table, status: status, log: logger}
}

func (repo *AttendanceRepository) fail(op string, err error) error {
	rerr := &RemoteError{Op: op, Table: academy.TableAttendance, Err: err}
	repo.status.setError(rerr)
	repo.log.Error("remote call failed", rerr)
	return rerr
}

func (repo *AttendanceRepository) List(ctx context.Context, filter academy.Filter) Result[[]academy.AttendanceRecord] {
	repo.status.begin()
	defer repo.status.end()

	rows, err := repo.table.Select(ctx, filter)
	if err != nil {
		return Result[[]academy.AttendanceRecord]{Value: []academy.AttendanceRecord{}, Err: repo.fail("list", err)}
	}
	if rows == nil {
		rows = []academy.AttendanceRecord{}
	}
	return Result[[]academy.AttendanceRecord]{Value: rows}
}

// Upsert writes rec, replacing any record of the same (student, course, date).
func (repo *AttendanceRepository) Upsert(ctx context.Context, rec academy.AttendanceRecord) Result[academy.AttendanceRecord] {
	repo.status.begin()
	defer repo.status.end()

	saved, err := repo.table.Upsert(ctx, rec)
	if err != nil {
		return Result[academy.AttendanceRecord]{Err: repo.fail("upsert", err)}
	}
	return Result[academy.AttendanceRecord]{Value: saved}
}
