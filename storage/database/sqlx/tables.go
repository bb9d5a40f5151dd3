package sqlxdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/storage/tables"
)

type table[T any, P any, R any] struct {
	db      *DB
	schema  schema
	toRow   func(T) R
	fromRow func(R) T
	set     func(P) tables.Set
}

func (t *table[T, P, R]) selectQuery() string {
	return "SELECT " + t.schema.selectList("") + " FROM " + t.schema.name
}

func (t *table[T, P, R]) Select(ctx context.Context, filter academy.Filter) ([]T, error) {
	conds, err := tables.Conditions(t.schema.name, filter)
	if err != nil {
		return nil, err
	}
	where, args := t.schema.where(conds)
	var rows []R
	if err := t.db.db.SelectContext(ctx, &rows, t.selectQuery()+where+" ORDER BY "+t.schema.name+".id", args...); err != nil {
		return nil, errors.Wrapf(err, "selecting %s", t.schema.name)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.fromRow(r))
	}
	return out, nil
}

func (t *table[T, P, R]) Insert(ctx context.Context, v T) (T, error) {
	var row R
	if err := getNamed(ctx, t.db.db, &row, t.schema.insertQuery(), t.toRow(v)); err != nil {
		var zero T
		return zero, errors.Wrapf(err, "inserting into %s", t.schema.name)
	}
	return t.fromRow(row), nil
}

func (t *table[T, P, R]) Update(ctx context.Context, id string, p P) (T, error) {
	var (
		zero T
		row  R
		err  error
	)
	if set := t.set(p); len(set) > 0 {
		q, args := t.schema.updateQuery(set, id)
		err = t.db.db.GetContext(ctx, &row, q, args...)
	} else {
		err = t.db.db.GetContext(ctx, &row, t.selectQuery()+" WHERE id = $1", id)
	}
	if err != nil {
		return zero, notFound(err, t.schema.name, id)
	}
	return t.fromRow(row), nil
}

func (t *table[T, P, R]) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, t.db.db, "DELETE FROM "+t.schema.name+" WHERE id = $1", t.schema.name, id)
}

// personTable serves students & staff, joined with the users row of the same id.
type personTable[T any, P any, R any] struct {
	db        *DB
	schema    schema
	role      academy.Role
	split     func(T) (tables.UserRow, R)
	join      func(R) T
	setID     func(*R, string)
	attach    func(*R, *tables.UserRow)
	userPatch func(P) academy.UserPatch
	set       func(P) tables.Set
}

func (t *personTable[T, P, R]) selectQuery() string {
	return "SELECT " + t.schema.selectList("") + ", " + usersSchema.selectList("users") +
		" FROM " + t.schema.name + " JOIN users ON users.id = " + t.schema.name + ".id"
}

func (t *personTable[T, P, R]) selectRows(ctx context.Context, q queryer, conds []tables.Condition) ([]T, error) {
	where, args := t.schema.where(conds)
	var rows []R
	if err := sqlx.SelectContext(ctx, q, &rows, t.selectQuery()+where+" ORDER BY users.name", args...); err != nil {
		return nil, errors.Wrapf(err, "selecting %s", t.schema.name)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.join(r))
	}
	return out, nil
}

func (t *personTable[T, P, R]) Select(ctx context.Context, filter academy.Filter) ([]T, error) {
	conds, err := tables.Conditions(t.schema.name, filter)
	if err != nil {
		return nil, err
	}
	return t.selectRows(ctx, t.db.db, conds)
}

func (t *personTable[T, P, R]) Insert(ctx context.Context, v T) (T, error) {
	var created R
	user, row := t.split(v)
	user.Role = string(t.role)

	err := t.db.inTx(ctx, func(tx *sqlx.Tx) error {
		var u tables.UserRow
		if err := getNamed(ctx, tx, &u, usersSchema.insertQuery(), user); err != nil {
			return errors.Wrap(err, "inserting into users")
		}
		t.setID(&row, u.ID)
		if err := getNamed(ctx, tx, &created, t.schema.insertQuery(), row); err != nil {
			return errors.Wrapf(err, "inserting into %s", t.schema.name)
		}
		t.attach(&created, &u)
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return t.join(created), nil
}

func (t *personTable[T, P, R]) Update(ctx context.Context, id string, p P) (T, error) {
	var updated []T
	err := t.db.inTx(ctx, func(tx *sqlx.Tx) error {
		if set := tables.UserSet(t.userPatch(p)); len(set) > 0 {
			q, args := usersSchema.updateQuery(set, id, "role = '"+string(t.role)+"'")
			var u tables.UserRow
			if err := tx.GetContext(ctx, &u, q, args...); err != nil {
				return notFound(err, t.schema.name, id)
			}
		}
		if set := t.set(p); len(set) > 0 {
			q, args := t.schema.updateQuery(set, id)
			var r R
			if err := tx.GetContext(ctx, &r, q, args...); err != nil {
				return notFound(err, t.schema.name, id)
			}
		}
		var err error
		updated, err = t.selectRows(ctx, tx, []tables.Condition{{Column: "id", Value: id}})
		return err
	})
	var zero T
	if err != nil {
		return zero, err
	}
	if len(updated) == 0 {
		return zero, errors.Wrapf(academy.ErrNotFound, "%s %s", t.schema.name, id)
	}
	return updated[0], nil
}

// Delete removes the users row; the person row goes with it (on delete cascade).
func (t *personTable[T, P, R]) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, t.db.db, "DELETE FROM users WHERE id = $1 AND role = $2", t.schema.name, id, string(t.role))
}

type attendanceTable struct {
	db *DB
}

func (t *attendanceTable) Select(ctx context.Context, filter academy.Filter) ([]academy.AttendanceRecord, error) {
	conds, err := tables.Conditions(academy.TableAttendance, filter)
	if err != nil {
		return nil, err
	}
	where, args := attendanceSchema.where(conds)
	var rows []tables.AttendanceRow
	q := "SELECT " + attendanceSchema.selectList("") + " FROM attendance" + where + " ORDER BY attendance.date"
	if err := t.db.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}
	out := make([]academy.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out, nil
}

func (t *attendanceTable) Upsert(ctx context.Context, rec academy.AttendanceRecord) (academy.AttendanceRecord, error) {
	q := "INSERT INTO attendance (student_id, course_id, date, status) VALUES ($1, $2, $3, $4)" +
		" ON CONFLICT (student_id, course_id, date) DO UPDATE SET status = EXCLUDED.status" +
		" RETURNING " + attendanceSchema.returning()
	var row tables.AttendanceRow
	if err := t.db.db.GetContext(ctx, &row, q, rec.StudentID, rec.CourseID, rec.Date, string(rec.Status)); err != nil {
		return academy.AttendanceRecord{}, errors.Wrap(err, "upserting attendance")
	}
	return row.Record(), nil
}

func (t *attendanceTable) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, t.db.db, "DELETE FROM attendance WHERE id = $1", academy.TableAttendance, id)
}
