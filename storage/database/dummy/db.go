// Package dummydb is an in-process academy.Backend, for demos and tests.
// It can be switched offline to simulate an unreachable backend.
package dummydb

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

var ErrDuplicate = errors.New("duplicate key value violates unique constraint")

type (
	DB struct {
		sync.RWMutex
		offline error
		calls   int64

		users      []academy.User
		students   []academy.Student
		staff      []academy.Staff
		courses    []academy.Course
		groups     []academy.Group
		payments   []academy.FeePayment
		attendance []academy.AttendanceRecord
	}

	// Data is what Seed loads.
	Data struct {
		Students []academy.Student
		Staff    []academy.Staff
		Courses  []academy.Course
		Groups   []academy.Group
		Payments []academy.FeePayment
		Admins   []academy.User
	}
)

var _ academy.Backend = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{}
}

func (db *DB) Close() error { return nil }

// SetOffline makes every call fail with err; nil brings the backend back.
func (db *DB) SetOffline(err error) {
	db.Lock()
	defer db.Unlock()
	db.offline = err
}

// Calls returns the number of calls received, failed ones included.
func (db *DB) Calls() int {
	return int(atomic.LoadInt64(&db.calls))
}

func (db *DB) check(ctx context.Context) error {
	atomic.AddInt64(&db.calls, 1)
	if err := ctx.Err(); err != nil {
		return err
	}
	db.RLock()
	defer db.RUnlock()
	return db.offline
}

// Seed inserts data, keeping its ids. Student attendance lands in the attendance table.
func (db *DB) Seed(data Data) {
	db.Lock()
	defer db.Unlock()

	for _, u := range data.Admins {
		db.users = append(db.users, u)
	}
	for _, s := range data.Students {
		s = s.Clone()
		s.Role = academy.RoleStudent
		db.users = append(db.users, s.User)
		for _, r := range s.Attendance {
			r.StudentID = s.ID
			if r.ID == "" {
				r.ID = uuid.New().String()
			}
			db.attendance = append(db.attendance, r)
		}
		s.Attendance = nil
		db.students = append(db.students, s)
	}
	for _, m := range data.Staff {
		m = m.Clone()
		m.Role = academy.RoleStaff
		db.users = append(db.users, m.User)
		db.staff = append(db.staff, m)
	}
	for _, c := range data.Courses {
		db.courses = append(db.courses, c.Clone())
	}
	for _, g := range data.Groups {
		db.groups = append(db.groups, g.Clone())
	}
	db.payments = append(db.payments, data.Payments...)
}

// Clear empties every table.
func (db *DB) Clear() {
	db.Lock()
	defer db.Unlock()
	db.users, db.students, db.staff, db.courses = nil, nil, nil, nil
	db.groups, db.payments, db.attendance = nil, nil, nil
}

func (db *DB) userIndex(id string) int {
	for i := range db.users {
		if db.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (db *DB) isStudent(id string) bool {
	for _, s := range db.students {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (db *DB) checkEmail(u academy.User) error {
	for _, o := range db.users {
		if o.Email == u.Email {
			return errors.Wrap(ErrDuplicate, "users_email_key")
		}
	}
	return nil
}

func (db *DB) insertUser(u academy.User) error {
	if err := db.checkEmail(u); err != nil {
		return err
	}
	db.users = append(db.users, u)
	return nil
}

func (db *DB) putUser(u academy.User) {
	if i := db.userIndex(u.ID); i >= 0 {
		db.users[i] = u
	}
}

// deleteUser cascades to the students, staff & attendance rows of the user.
func (db *DB) deleteUser(id string) {
	db.users = without(db.users, func(u academy.User) bool { return u.ID == id })
	db.students = without(db.students, func(s academy.Student) bool { return s.ID == id })
	db.staff = without(db.staff, func(s academy.Staff) bool { return s.ID == id })
	db.attendance = without(db.attendance, func(r academy.AttendanceRecord) bool { return r.StudentID == id })
}

func (db *DB) joinUser(u *academy.User) {
	if i := db.userIndex(u.ID); i >= 0 {
		role := u.Role
		*u = db.users[i]
		u.Role = role
	}
}

func without[T any](list []T, drop func(T) bool) []T {
	out := list[:0]
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

func (db *DB) Users() academy.Table[academy.User, academy.UserPatch] {
	return &memTable[academy.User, academy.UserPatch]{
		db:    db,
		rows:  func(db *DB) *[]academy.User { return &db.users },
		idOf:  func(u academy.User) string { return u.ID },
		setID: func(u *academy.User, id string) { u.ID = id },
		clone: func(u academy.User) academy.User { return u },
		column: func(u academy.User, col string) (string, bool) {
			switch col {
			case academy.ColID:
				return u.ID, true
			case academy.ColRole:
				return string(u.Role), true
			case academy.ColEmail:
				return u.Email, true
			}
			return "", false
		},
		insert: func(db *DB, u academy.User) error { return db.checkEmail(u) },
		delete: func(db *DB, id string) { db.deleteUser(id) },
	}
}

func (db *DB) Students() academy.Table[academy.Student, academy.StudentPatch] {
	return &memTable[academy.Student, academy.StudentPatch]{
		db:    db,
		rows:  func(db *DB) *[]academy.Student { return &db.students },
		idOf:  func(s academy.Student) string { return s.ID },
		setID: func(s *academy.Student, id string) { s.ID = id },
		clone: func(s academy.Student) academy.Student {
			s = s.Clone()
			s.Attendance = nil
			return s
		},
		column: func(s academy.Student, col string) (string, bool) {
			switch col {
			case academy.ColID:
				return s.ID, true
			case academy.ColEmail:
				return s.Email, true
			}
			return "", false
		},
		join:   func(db *DB, s *academy.Student) { db.joinUser(&s.User) },
		insert: func(db *DB, s academy.Student) error { return db.insertUser(s.User) },
		update: func(db *DB, s academy.Student) { db.putUser(s.User) },
		delete: func(db *DB, id string) { db.deleteUser(id) },
	}
}

func (db *DB) Staff() academy.Table[academy.Staff, academy.StaffPatch] {
	return &memTable[academy.Staff, academy.StaffPatch]{
		db:    db,
		rows:  func(db *DB) *[]academy.Staff { return &db.staff },
		idOf:  func(s academy.Staff) string { return s.ID },
		setID: func(s *academy.Staff, id string) { s.ID = id },
		clone: academy.Staff.Clone,
		column: func(s academy.Staff, col string) (string, bool) {
			switch col {
			case academy.ColID:
				return s.ID, true
			case academy.ColEmail:
				return s.Email, true
			}
			return "", false
		},
		join:   func(db *DB, s *academy.Staff) { db.joinUser(&s.User) },
		insert: func(db *DB, s academy.Staff) error { return db.insertUser(s.User) },
		update: func(db *DB, s academy.Staff) { db.putUser(s.User) },
		delete: func(db *DB, id string) { db.deleteUser(id) },
	}
}

func (db *DB) Courses() academy.Table[academy.Course, academy.CoursePatch] {
	return &memTable[academy.Course, academy.CoursePatch]{
		db:    db,
		rows:  func(db *DB) *[]academy.Course { return &db.courses },
		idOf:  func(c academy.Course) string { return c.ID },
		setID: func(c *academy.Course, id string) { c.ID = id },
		clone: academy.Course.Clone,
		column: func(c academy.Course, col string) (string, bool) {
			switch col {
			case academy.ColID:
				return c.ID, true
			case academy.ColTutorID:
				return c.TutorID, true
			}
			return "", false
		},
	}
}

func (db *DB) Groups() academy.Table[academy.Group, academy.GroupPatch] {
	return &memTable[academy.Group, academy.GroupPatch]{
		db:    db,
		rows:  func(db *DB) *[]academy.Group { return &db.groups },
		idOf:  func(g academy.Group) string { return g.ID },
		setID: func(g *academy.Group, id string) { g.ID = id },
		clone: academy.Group.Clone,
		column: func(g academy.Group, col string) (string, bool) {
			switch col {
			case academy.ColID:
				return g.ID, true
			case academy.ColCreatedBy:
				return g.CreatedBy, true
			}
			return "", false
		},
	}
}

func (db *DB) Payments() academy.Table[academy.FeePayment, academy.FeePaymentPatch] {
	return &memTable[academy.FeePayment, academy.FeePaymentPatch]{
		db:    db,
		rows:  func(db *DB) *[]academy.FeePayment { return &db.payments },
		idOf:  func(p academy.FeePayment) string { return p.ID },
		setID: func(p *academy.FeePayment, id string) { p.ID = id },
		clone: func(p academy.FeePayment) academy.FeePayment { return p },
		column: func(p academy.FeePayment, col string) (string, bool) {
			switch col {
			case academy.ColID:
				return p.ID, true
			case academy.ColStudentID:
				return p.StudentID, true
			}
			return "", false
		},
	}
}

func (db *DB) Attendance() academy.AttendanceTable {
	return &attendanceTable{db: db}
}
