package academy

import (
	"context"
	"errors"
)

var (
	// errors
	ErrNotFound      = errors.New("record not found")
	ErrUnknownColumn = errors.New("unknown filter column")
)

// Tables of the remote backend.
const (
	TableUsers       = "users"
	TableStudents    = "students"
	TableStaff       = "staff"
	TableCourses     = "courses"
	TableAttendance  = "attendance"
	TableGroups      = "groups"
	TableFeePayments = "fee_payments"
)

// Filter columns.
const (
	ColID        = "id"
	ColRole      = "role"
	ColEmail     = "email"
	ColStudentID = "student_id"
	ColCourseID  = "course_id"
	ColTutorID   = "tutor_id"
	ColCreatedBy = "created_by"
)

// Filter holds column = value equality conditions, ANDed together.
type Filter map[string]string

// Eq returns a copy of f with column = value added.
func (f Filter) Eq(column, value string) Filter {
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[column] = value
	return out
}

type (
	// Table is the CRUD handle on one backend table.
	// Implementations return ErrNotFound (possibly wrapped) for unknown ids.
	Table[T any, P any] interface {
		Select(ctx context.Context, filter Filter) ([]T, error)
		Insert(ctx context.Context, row T) (T, error)
		Update(ctx context.Context, id string, patch P) (T, error)
		Delete(ctx context.Context, id string) error
	}

	// AttendanceTable has no plain insert: records are upserted on (student_id, course_id, date).
	AttendanceTable interface {
		Select(ctx context.Context, filter Filter) ([]AttendanceRecord, error)
		Upsert(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)
		Delete(ctx context.Context, id string) error
	}

	// Backend is the hosted store of the academy tables.
	// Students & Staff rows extend a users row sharing their id; deleting them deletes the user.
	Backend interface {
		Users() Table[User, UserPatch]
		Students() Table[Student, StudentPatch]
		Staff() Table[Staff, StaffPatch]
		Courses() Table[Course, CoursePatch]
		Groups() Table[Group, GroupPatch]
		Payments() Table[FeePayment, FeePaymentPatch]
		Attendance() AttendanceTable
		Close() error
	}
)

// AttachAttendance distributes records to their students, replacing any attendance they held.
func AttachAttendance(students []Student, records []AttendanceRecord) {
	byStudent := make(map[string][]AttendanceRecord, len(students))
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}
	for i := range students {
		students[i].Attendance = byStudent[students[i].ID]
		if students[i].Attendance == nil {
			students[i].Attendance = []AttendanceRecord{}
		}
	}
}
