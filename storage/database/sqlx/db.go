// Package sqlxdb is the academy.Backend of a Postgres database, migrated by storage/database.
package sqlxdb

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/storage/tables"
)

type DB struct {
	db *sqlx.DB
}

var _ academy.Backend = (*DB)(nil) // interface compliance check

func New(db *sqlx.DB) *DB {
	return &DB{db: db}
}

func (db *DB) Close() error { return db.db.Close() }

// queryer is implemented by *sqlx.DB & *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// getNamed runs a named query returning one row into dest.
func getNamed(ctx context.Context, q queryer, dest interface{}, query string, arg interface{}) error {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return errors.Wrap(err, "binding query")
	}
	return q.GetContext(ctx, dest, q.Rebind(bound), args...)
}

// notFound maps sql.ErrNoRows to academy.ErrNotFound.
func notFound(err error, table, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(academy.ErrNotFound, "%s %s", table, id)
	}
	return err
}

func deleteRow(ctx context.Context, q queryer, query, table, id string, args ...interface{}) error {
	res, err := q.ExecContext(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(academy.ErrNotFound, "%s %s", table, id)
	}
	return nil
}

// inTx runs fn in a transaction, committed when fn succeeds.
func (db *DB) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (db *DB) Users() academy.Table[academy.User, academy.UserPatch] {
	return &table[academy.User, academy.UserPatch, tables.UserRow]{
		db: db, schema: usersSchema, toRow: tables.FromUser, fromRow: tables.UserRow.User, set: tables.UserSet,
	}
}

func (db *DB) Students() academy.Table[academy.Student, academy.StudentPatch] {
	return &personTable[academy.Student, academy.StudentPatch, tables.StudentRow]{
		db:        db,
		schema:    studentsSchema,
		role:      academy.RoleStudent,
		split:     tables.FromStudent,
		join:      tables.StudentRow.Student,
		setID:     func(r *tables.StudentRow, id string) { r.ID = id },
		attach:    func(r *tables.StudentRow, u *tables.UserRow) { r.User = u },
		userPatch: func(p academy.StudentPatch) academy.UserPatch { return p.UserPatch },
		set:       tables.StudentSet,
	}
}

func (db *DB) Staff() academy.Table[academy.Staff, academy.StaffPatch] {
	return &personTable[academy.Staff, academy.StaffPatch, tables.StaffRow]{
		db:        db,
		schema:    staffSchema,
		role:      academy.RoleStaff,
		split:     tables.FromStaff,
		join:      tables.StaffRow.Staff,
		setID:     func(r *tables.StaffRow, id string) { r.ID = id },
		attach:    func(r *tables.StaffRow, u *tables.UserRow) { r.User = u },
		userPatch: func(p academy.StaffPatch) academy.UserPatch { return p.UserPatch },
		set:       tables.StaffSet,
	}
}

func (db *DB) Courses() academy.Table[academy.Course, academy.CoursePatch] {
	return &table[academy.Course, academy.CoursePatch, tables.CourseRow]{
		db: db, schema: coursesSchema, toRow: tables.FromCourse, fromRow: tables.CourseRow.Course, set: tables.CourseSet,
	}
}

func (db *DB) Groups() academy.Table[academy.Group, academy.GroupPatch] {
	return &table[academy.Group, academy.GroupPatch, tables.GroupRow]{
		db: db, schema: groupsSchema, toRow: tables.FromGroup, fromRow: tables.GroupRow.Group, set: tables.GroupSet,
	}
}

func (db *DB) Payments() academy.Table[academy.FeePayment, academy.FeePaymentPatch] {
	return &table[academy.FeePayment, academy.FeePaymentPatch, tables.PaymentRow]{
		db: db, schema: paymentsSchema, toRow: tables.FromPayment, fromRow: tables.PaymentRow.Payment, set: tables.PaymentSet,
	}
}

func (db *DB) Attendance() academy.AttendanceTable {
	return &attendanceTable{db: db}
}
