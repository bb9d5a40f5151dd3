package dummydb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

type memTable[T any, P interface{ Apply(*T) }] struct {
	db     *DB
	rows   func(db *DB) *[]T
	idOf   func(T) string
	setID  func(*T, string)
	clone  func(T) T
	column func(row T, col string) (string, bool)

	// optional hooks, called with the lock held
	join   func(db *DB, row *T)
	insert func(db *DB, row T) error
	update func(db *DB, row T)
	delete func(db *DB, id string)
}

func (t *memTable[T, P]) index(id string) int {
	for i, row := range *t.rows(t.db) {
		if t.idOf(row) == id {
			return i
		}
	}
	return -1
}

func (t *memTable[T, P]) read(row T) T {
	row = t.clone(row)
	if t.join != nil {
		t.join(t.db, &row)
	}
	return row
}

func (t *memTable[T, P]) matches(row T, filter academy.Filter) (bool, error) {
	for col, want := range filter {
		got, ok := t.column(row, col)
		if !ok {
			return false, errors.Wrap(academy.ErrUnknownColumn, col)
		}
		if got != want {
			return false, nil
		}
	}
	return true, nil
}

func (t *memTable[T, P]) Select(ctx context.Context, filter academy.Filter) ([]T, error) {
	if err := t.db.check(ctx); err != nil {
		return nil, err
	}
	t.db.RLock()
	defer t.db.RUnlock()

	out := make([]T, 0)
	for _, row := range *t.rows(t.db) {
		row = t.read(row)
		ok, err := t.matches(row, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *memTable[T, P]) Insert(ctx context.Context, row T) (T, error) {
	var zero T
	if err := t.db.check(ctx); err != nil {
		return zero, err
	}
	t.db.Lock()
	defer t.db.Unlock()

	row = t.clone(row)
	if t.idOf(row) == "" {
		t.setID(&row, uuid.New().String())
	} else if t.index(t.idOf(row)) >= 0 {
		return zero, errors.Wrapf(ErrDuplicate, "id %s", t.idOf(row))
	}
	if t.insert != nil {
		if err := t.insert(t.db, row); err != nil {
			return zero, err
		}
	}
	rows := t.rows(t.db)
	*rows = append(*rows, row)
	return t.read(row), nil
}

func (t *memTable[T, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	if err := t.db.check(ctx); err != nil {
		return zero, err
	}
	t.db.Lock()
	defer t.db.Unlock()

	i := t.index(id)
	if i < 0 {
		return zero, errors.Wrapf(academy.ErrNotFound, "id %s", id)
	}
	row := t.read((*t.rows(t.db))[i])
	patch.Apply(&row)
	t.setID(&row, id)
	if t.update != nil {
		t.update(t.db, row)
	}
	(*t.rows(t.db))[i] = t.clone(row)
	return t.read(row), nil
}

func (t *memTable[T, P]) Delete(ctx context.Context, id string) error {
	if err := t.db.check(ctx); err != nil {
		return err
	}
	t.db.Lock()
	defer t.db.Unlock()

	i := t.index(id)
	if i < 0 {
		return errors.Wrapf(academy.ErrNotFound, "id %s", id)
	}
	rows := t.rows(t.db)
	*rows = append((*rows)[:i], (*rows)[i+1:]...)
	if t.delete != nil {
		t.delete(t.db, id)
	}
	return nil
}

type attendanceTable struct {
	db *DB
}

func (t *attendanceTable) Select(ctx context.Context, filter academy.Filter) ([]academy.AttendanceRecord, error) {
	if err := t.db.check(ctx); err != nil {
		return nil, err
	}
	t.db.RLock()
	defer t.db.RUnlock()

	out := make([]academy.AttendanceRecord, 0)
	for _, r := range t.db.attendance {
		ok := true
		for col, want := range filter {
			var got string
			switch col {
			case academy.ColID:
				got = r.ID
			case academy.ColStudentID:
				got = r.StudentID
			case academy.ColCourseID:
				got = r.CourseID
			default:
				return nil, errors.Wrap(academy.ErrUnknownColumn, col)
			}
			ok = ok && got == want
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Upsert keeps the id of an existing record with the same student, course & date.
func (t *attendanceTable) Upsert(ctx context.Context, rec academy.AttendanceRecord) (academy.AttendanceRecord, error) {
	if err := t.db.check(ctx); err != nil {
		return academy.AttendanceRecord{}, err
	}
	t.db.Lock()
	defer t.db.Unlock()

	if !t.db.isStudent(rec.StudentID) {
		return academy.AttendanceRecord{}, errors.Errorf("attendance: student %s does not exist", rec.StudentID)
	}
	for i, r := range t.db.attendance {
		if r.SameKey(rec) {
			rec.ID = r.ID
			t.db.attendance[i] = rec
			return rec, nil
		}
	}
	rec.ID = uuid.New().String()
	t.db.attendance = append(t.db.attendance, rec)
	return rec, nil
}

func (t *attendanceTable) Delete(ctx context.Context, id string) error {
	if err := t.db.check(ctx); err != nil {
		return err
	}
	t.db.Lock()
	defer t.db.Unlock()

	n := len(t.db.attendance)
	t.db.attendance = without(t.db.attendance, func(r academy.AttendanceRecord) bool { return r.ID == id })
	if len(t.db.attendance) == n {
		return errors.Wrapf(academy.ErrNotFound, "id %s", id)
	}
	return nil
}
