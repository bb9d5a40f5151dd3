package dummydb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreshtta/academy/core/academy"
)

func seeded() *DB {
	db := Open()
	db.Seed(Data{
		Students: []academy.Student{{
			User:            academy.User{ID: "1", Name: "Arjun Sharma", Email: "arjun@example.com"},
			StudentID:       "ST001",
			EnrolledCourses: []string{"1"},
			Attendance:      []academy.AttendanceRecord{{CourseID: "1", Date: "2024-01-15", Status: academy.Present}},
		}},
		Staff:   []academy.Staff{{User: academy.User{ID: "2", Name: "Priya Patel", Email: "priya@sreshtta.com"}, StaffID: "SF001"}},
		Courses: []academy.Course{{ID: "1", Name: "Digital Painting", TutorID: "2"}},
		Admins:  []academy.User{{ID: "3", Name: "Rajesh Kumar", Email: "admin@sreshtta.com", Role: academy.RoleAdmin}},
	})
	return db
}

func TestDB_Students(t *testing.T) {
	ctx := context.Background()
	db := seeded()
	students := db.Students()

	rows, err := students.Select(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, academy.RoleStudent, rows[0].Role)
	assert.Nil(t, rows[0].Attendance)

	st, err := students.Insert(ctx, academy.Student{User: academy.User{Name: "Sneha Gupta", Email: "sneha@example.com", Role: academy.RoleStudent}, StudentID: "ST002"})
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)

	_, err = students.Insert(ctx, academy.Student{User: academy.User{Name: "Copy", Email: "sneha@example.com"}, StudentID: "ST003"})
	assert.ErrorIs(t, err, ErrDuplicate)

	updated, err := students.Update(ctx, st.ID, academy.StudentPatch{UserPatch: academy.UserPatch{Name: academy.String("Sneha G.")}, TotalFees: academy.Int(100)})
	require.NoError(t, err)
	assert.Equal(t, "Sneha G.", updated.Name)
	assert.Equal(t, 100, updated.TotalFees)

	users, err := db.Users().Select(ctx, academy.Filter{academy.ColEmail: "sneha@example.com"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Sneha G.", users[0].Name)

	_, err = students.Update(ctx, "ghost", academy.StudentPatch{})
	assert.ErrorIs(t, err, academy.ErrNotFound)

	require.NoError(t, students.Delete(ctx, "1"))
	assert.ErrorIs(t, students.Delete(ctx, "1"), academy.ErrNotFound)
	users, err = db.Users().Select(ctx, academy.Filter{academy.ColID: "1"})
	require.NoError(t, err)
	assert.Empty(t, users)
	records, err := db.Attendance().Select(ctx, academy.Filter{academy.ColStudentID: "1"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDB_Filter(t *testing.T) {
	ctx := context.Background()
	db := seeded()

	admins, err := db.Users().Select(ctx, academy.Filter{academy.ColRole: string(academy.RoleAdmin)})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "3", admins[0].ID)

	courses, err := db.Courses().Select(ctx, academy.Filter{academy.ColTutorID: "4"})
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)

	_, err = db.Courses().Select(ctx, academy.Filter{"price": "1"})
	assert.ErrorIs(t, err, academy.ErrUnknownColumn)
}

func TestDB_AttendanceUpsert(t *testing.T) {
	ctx := context.Background()
	db := seeded()
	table := db.Attendance()

	rec := academy.AttendanceRecord{StudentID: "1", CourseID: "1", Date: "2024-01-16", Status: academy.Present}
	first, err := table.Upsert(ctx, rec)
	require.NoError(t, err)
	rec.Status = academy.Absent
	second, err := table.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	records, err := table.Select(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = table.Upsert(ctx, academy.AttendanceRecord{StudentID: "ghost", CourseID: "1", Date: "2024-01-16"})
	assert.Error(t, err)

	require.NoError(t, table.Delete(ctx, first.ID))
	assert.ErrorIs(t, table.Delete(ctx, first.ID), academy.ErrNotFound)
}

func TestDB_Offline(t *testing.T) {
	ctx := context.Background()
	db := seeded()
	down := errors.New("network unreachable")

	db.SetOffline(down)
	_, err := db.Students().Select(ctx, nil)
	assert.ErrorIs(t, err, down)
	_, err = db.Courses().Insert(ctx, academy.Course{Name: "Clay"})
	assert.ErrorIs(t, err, down)
	assert.ErrorIs(t, db.Staff().Delete(ctx, "2"), down)
	assert.Equal(t, 3, db.Calls())

	db.SetOffline(nil)
	rows, err := db.Staff().Select(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = db.Groups().Select(canceled, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
