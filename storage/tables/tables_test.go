package tables

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreshtta/academy/core/academy"
)

func TestStudentRows(t *testing.T) {
	s := academy.Student{
		User:            academy.User{ID: "u1", Name: "Arjun Sharma", Email: "arjun@example.com", Phone: "+91 9876543210"},
		StudentID:       "ST001",
		EnrolledCourses: []string{"1", "2"},
		PendingFees:     5000,
		TotalFees:       20000,
	}
	u, row := FromStudent(s)
	assert.Equal(t, "student", u.Role)
	assert.False(t, u.Avatar.Valid)
	assert.False(t, row.GroupID.Valid)

	// students are inserted without their user
	b, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "u1", "student_id": "ST001", "enrolled_courses": ["1", "2"],
		"pending_fees": 5000, "total_fees": 20000, "group_id": null}`, string(b))

	row.User = &u
	got := row.Student()
	assert.Equal(t, "Arjun Sharma", got.Name)
	assert.Equal(t, academy.RoleStudent, got.Role)
	assert.Equal(t, s.EnrolledCourses, got.EnrolledCourses)
}

func TestStudentRow_FromJoinedJSON(t *testing.T) {
	in := `{"id": "u1", "student_id": "ST001", "enrolled_courses": null, "pending_fees": 0, "total_fees": 100,
		"group_id": "g1", "users": {"id": "u1", "name": "Sneha", "email": "sneha@example.com", "phone": "", "role": "student", "avatar": null}}`
	var row StudentRow
	require.NoError(t, json.Unmarshal([]byte(in), &row))
	s := row.Student()
	assert.Equal(t, "Sneha", s.Name)
	assert.Equal(t, "g1", s.GroupID)
	assert.Equal(t, []string{}, s.EnrolledCourses)
}

func TestCourseRow_Schedule(t *testing.T) {
	c := academy.Course{ID: "1", Name: "Clay", Schedule: academy.ParseSchedule("Sat - 11:00 AM")}
	b, err := json.Marshal(FromCourse(c))
	require.NoError(t, err)

	var row CourseRow
	require.NoError(t, json.Unmarshal(b, &row))
	assert.Equal(t, "Saturday 11:00-12:00", row.Course().Schedule.String())
	assert.False(t, row.StartDate.Valid)
}

func TestSets(t *testing.T) {
	assert.Empty(t, StudentSet(academy.StudentPatch{}))

	s := StudentSet(academy.StudentPatch{PendingFees: academy.Int(0), GroupID: academy.String("")})
	assert.Equal(t, []string{"pending_fees", "group_id"}, s.Columns())
	m := s.Map()
	assert.Equal(t, 0, m["pending_fees"])
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pending_fees": 0, "group_id": null}`, string(b))

	sched := academy.TextSchedule("Sun - 9:00 AM")
	cs := CourseSet(academy.CoursePatch{Name: academy.String("Clay"), Capacity: academy.Int(12), Schedule: &sched})
	assert.Equal(t, []string{"name", "capacity", "schedule"}, cs.Columns())

	assert.Equal(t, []string{"name", "phone"}, UserSet(academy.UserPatch{Name: academy.String("A"), Phone: academy.String("1")}).Columns())
}

func TestConditions(t *testing.T) {
	conds, err := Conditions(academy.TableStudents, academy.Filter{academy.ColEmail: "a@b.c", academy.ColID: "1"})
	require.NoError(t, err)
	assert.Equal(t, []Condition{{Column: "id", Value: "1"}, {Column: "users.email", Value: "a@b.c"}}, conds)

	conds, err = Conditions(academy.TableCourses, nil)
	require.NoError(t, err)
	assert.Empty(t, conds)

	_, err = Conditions(academy.TableGroups, academy.Filter{academy.ColRole: "admin"})
	assert.ErrorIs(t, err, academy.ErrUnknownColumn)
}
