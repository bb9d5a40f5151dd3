package restdb

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/storage/tables"
)

type table[T any, P any, R any] struct {
	c       *Client
	name    string
	toRow   func(T) R
	fromRow func(R) T
	set     func(P) tables.Set
}

func (t *table[T, P, R]) rows(rows []R) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.fromRow(r))
	}
	return out
}

func (t *table[T, P, R]) Select(ctx context.Context, filter academy.Filter) ([]T, error) {
	conds, err := tables.Conditions(t.name, filter)
	if err != nil {
		return nil, err
	}
	var rows []R
	if err := t.c.do(ctx, rest.Get, t.name, eq(conds).with("select", "*"), nil, &rows); err != nil {
		return nil, err
	}
	return t.rows(rows), nil
}

func (t *table[T, P, R]) Insert(ctx context.Context, v T) (T, error) {
	var rows []R
	if err := t.c.do(ctx, rest.Post, t.name, nil, t.toRow(v), &rows); err != nil {
		var zero T
		return zero, err
	}
	row, err := one(rows, t.name, "")
	return t.fromRow(row), err
}

func (t *table[T, P, R]) Update(ctx context.Context, id string, p P) (T, error) {
	var zero T
	set := t.set(p)
	if len(set) == 0 {
		var rows []R
		if err := t.c.do(ctx, rest.Get, t.name, byID(id).with("select", "*"), nil, &rows); err != nil {
			return zero, err
		}
		row, err := one(rows, t.name, id)
		return t.fromRow(row), err
	}
	var rows []R
	if err := t.c.do(ctx, rest.Patch, t.name, byID(id), set.Map(), &rows); err != nil {
		return zero, err
	}
	row, err := one(rows, t.name, id)
	if err != nil {
		return zero, err
	}
	return t.fromRow(row), nil
}

func (t *table[T, P, R]) Delete(ctx context.Context, id string) error {
	var rows []R
	if err := t.c.do(ctx, rest.Delete, t.name, byID(id), nil, &rows); err != nil {
		return err
	}
	_, err := one(rows, t.name, id)
	return err
}

// personTable serves students & staff: rows extending a users row with the same id.
type personTable[T any, P any, R any] struct {
	c         *Client
	name      string
	role      academy.Role
	split     func(T) (tables.UserRow, R)
	join      func(R) T
	setID     func(*R, string)
	attach    func(*R, *tables.UserRow)
	userPatch func(P) academy.UserPatch
	set       func(P) tables.Set
}

func (t *personTable[T, P, R]) selectRows(ctx context.Context, q query) ([]T, error) {
	var rows []R
	if err := t.c.do(ctx, rest.Get, t.name, q.with("select", "*,users!inner(*)"), nil, &rows); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.join(r))
	}
	return out, nil
}

func (t *personTable[T, P, R]) Select(ctx context.Context, filter academy.Filter) ([]T, error) {
	conds, err := tables.Conditions(t.name, filter)
	if err != nil {
		return nil, err
	}
	return t.selectRows(ctx, eq(conds))
}

// Insert creates the users row then the person row; the user is removed if the latter fails.
func (t *personTable[T, P, R]) Insert(ctx context.Context, v T) (T, error) {
	var zero T
	user, row := t.split(v)
	user.ID = ""
	user.Role = string(t.role)

	var users []tables.UserRow
	if err := t.c.do(ctx, rest.Post, academy.TableUsers, nil, user, &users); err != nil {
		return zero, err
	}
	created, err := one(users, academy.TableUsers, "")
	if err != nil {
		return zero, err
	}

	t.setID(&row, created.ID)
	var rows []R
	if err := t.c.do(ctx, rest.Post, t.name, nil, row, &rows); err != nil {
		if derr := t.c.do(ctx, rest.Delete, academy.TableUsers, byID(created.ID), nil, nil); derr != nil {
			err = errors.Wrapf(err, "removing user %s: %v", created.ID, derr)
		}
		return zero, err
	}
	if row, err = one(rows, t.name, created.ID); err != nil {
		return zero, err
	}
	t.attach(&row, &created)
	return t.join(row), nil
}

func (t *personTable[T, P, R]) Update(ctx context.Context, id string, p P) (T, error) {
	var zero T
	if set := tables.UserSet(t.userPatch(p)); len(set) > 0 {
		var users []tables.UserRow
		if err := t.c.do(ctx, rest.Patch, academy.TableUsers, byID(id), set.Map(), &users); err != nil {
			return zero, err
		}
		if _, err := one(users, academy.TableUsers, id); err != nil {
			return zero, err
		}
	}
	if set := t.set(p); len(set) > 0 {
		var rows []R
		if err := t.c.do(ctx, rest.Patch, t.name, byID(id), set.Map(), &rows); err != nil {
			return zero, err
		}
	}
	rows, err := t.selectRows(ctx, byID(id))
	if err != nil {
		return zero, err
	}
	return one(rows, t.name, id)
}

// Delete removes the users row; the person row goes with it (on delete cascade).
func (t *personTable[T, P, R]) Delete(ctx context.Context, id string) error {
	var users []tables.UserRow
	q := byID(id).with("role", "eq."+string(t.role))
	if err := t.c.do(ctx, rest.Delete, academy.TableUsers, q, nil, &users); err != nil {
		return err
	}
	_, err := one(users, t.name, id)
	return err
}

type attendanceTable struct {
	c *Client
}

func (t *attendanceTable) Select(ctx context.Context, filter academy.Filter) ([]academy.AttendanceRecord, error) {
	conds, err := tables.Conditions(academy.TableAttendance, filter)
	if err != nil {
		return nil, err
	}
	var rows []tables.AttendanceRow
	if err := t.c.do(ctx, rest.Get, academy.TableAttendance, eq(conds).with("select", "*"), nil, &rows); err != nil {
		return nil, err
	}
	out := make([]academy.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out, nil
}

// Upsert merges on the (student_id, course_id, date) unique key.
func (t *attendanceTable) Upsert(ctx context.Context, rec academy.AttendanceRecord) (academy.AttendanceRecord, error) {
	row := tables.FromAttendance(rec)
	row.ID = ""
	q := query{"on_conflict": "student_id,course_id,date"}

	var rows []tables.AttendanceRow
	if err := t.c.do(ctx, rest.Post, academy.TableAttendance, q, row, &rows, "resolution=merge-duplicates"); err != nil {
		return academy.AttendanceRecord{}, err
	}
	saved, err := one(rows, academy.TableAttendance, "")
	return saved.Record(), err
}

func (t *attendanceTable) Delete(ctx context.Context, id string) error {
	var rows []tables.AttendanceRow
	if err := t.c.do(ctx, rest.Delete, academy.TableAttendance, byID(id), nil, &rows); err != nil {
		return err
	}
	_, err := one(rows, academy.TableAttendance, id)
	return err
}
