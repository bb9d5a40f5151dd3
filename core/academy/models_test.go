package academy

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreshtta/academy/core"
)

func validStudent() Student {
	return Student{
		User:            User{Name: "Arjun Sharma", Email: "arjun@example.com"},
		StudentID:       "ST001",
		EnrolledCourses: []string{"1"},
		PendingFees:     5000,
		TotalFees:       20000,
	}
}

func TestStudent_Validate(t *testing.T) {
	validate, translator := NewValidator()

	tests := []struct {
		name       string
		modify     func(s *Student)
		wantFields map[string]string
	}{
		{name: "valid", modify: func(s *Student) {}},
		{name: "settled", modify: func(s *Student) { s.PendingFees = 0 }},
		{
			name:       "pending above total",
			modify:     func(s *Student) { s.PendingFees = 20001 },
			wantFields: map[string]string{"pendingFees": "pendingFees cannot exceed the total"},
		},
		{
			name:       "missing name",
			modify:     func(s *Student) { s.Name = "" },
			wantFields: map[string]string{"name": "this field is required"},
		},
		{
			name:       "bad code",
			modify:     func(s *Student) { s.StudentID = "ST 001" },
			wantFields: map[string]string{"studentId": "only letters, digits and dashes are allowed"},
		},
		{
			name:   "bad email",
			modify: func(s *Student) { s.Email = "not-an-email" },
			wantFields: map[string]string{"email": "email must be a valid email address"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStudent()
			tt.modify(&s)
			err := s.Validate(validate)
			assert.Equal(t, RoleStudent, s.Role)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.wantFields, core.TranslateErrors(errs, translator))
		})
	}
}

func TestEnumValidation(t *testing.T) {
	validate, translator := NewValidator()

	rec := AttendanceRecord{CourseID: "1", Date: "2024-01-15", Status: "skipped"}
	var errs validator.ValidationErrors
	require.ErrorAs(t, rec.Validate(validate), &errs)
	assert.Equal(t, map[string]string{"status": attendanceStatusTxt}, core.TranslateErrors(errs, translator))

	rec.Status = Late
	assert.NoError(t, rec.Validate(validate))
	rec.Date = "15/01/2024"
	assert.Error(t, rec.Validate(validate))

	p := FeePayment{StudentID: "1", Amount: 100, Date: "2024-01-15", Method: "cheque", Status: Paid}
	require.ErrorAs(t, p.Validate(validate), &errs)
	assert.Equal(t, map[string]string{"method": paymentMethodText}, core.TranslateErrors(errs, translator))
	p.Method = UPI
	assert.NoError(t, p.Validate(validate))

	staff := Staff{User: User{Name: "Priya", Email: "priya@sreshtta.com"}, StaffID: "SF001"}
	assert.NoError(t, staff.Validate(validate))
	assert.Equal(t, RoleStaff, staff.Role)
}

func TestPatches(t *testing.T) {
	s := validStudent()
	StudentPatch{
		UserPatch:   UserPatch{Phone: String("+91 9876543210")},
		PendingFees: Int(0),
		GroupID:     String("1"),
	}.Apply(&s)
	assert.Equal(t, "Arjun Sharma", s.Name)
	assert.Equal(t, "+91 9876543210", s.Phone)
	assert.Equal(t, 0, s.PendingFees)
	assert.Equal(t, 20000, s.TotalFees)
	assert.Equal(t, "1", s.GroupID)

	c := Course{Name: "Clay", Enrolled: 7}
	sched := TextSchedule("Sat - 11:00 AM")
	CoursePatch{Capacity: Int(20), Schedule: &sched}.Apply(&c)
	assert.Equal(t, 20, c.Capacity)
	assert.Equal(t, 7, c.Enrolled)
	assert.Equal(t, "Sat - 11:00 AM", c.Schedule.String())

	assert.True(t, UserPatch{}.IsEmpty())
	assert.False(t, UserPatch{Name: String("x")}.IsEmpty())
}

func TestStudentPatchOf(t *testing.T) {
	src := validStudent()
	src.GroupID = "2"
	var dst Student
	StudentPatchOf(src).Apply(&dst)
	assert.Equal(t, src.Name, dst.Name)
	assert.Equal(t, src.StudentID, dst.StudentID)
	assert.Equal(t, src.EnrolledCourses, dst.EnrolledCourses)
	assert.Equal(t, src.PendingFees, dst.PendingFees)
	assert.Equal(t, src.GroupID, dst.GroupID)
}

func TestAttachAttendance(t *testing.T) {
	students := []Student{{User: User{ID: "a"}}, {User: User{ID: "b"}, Attendance: records(Present)}}
	AttachAttendance(students, []AttendanceRecord{
		{StudentID: "a", CourseID: "1", Date: "2024-01-15", Status: Present},
		{StudentID: "a", CourseID: "1", Date: "2024-01-16", Status: Absent},
		{StudentID: "ghost", CourseID: "1", Date: "2024-01-16", Status: Absent},
	})
	assert.Len(t, students[0].Attendance, 2)
	assert.NotNil(t, students[1].Attendance)
	assert.Empty(t, students[1].Attendance)
}
