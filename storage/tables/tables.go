// Package tables maps the academy models to the rows of the backend tables.
// Row structs carry `db` tags for sqlx and `json` tags for the REST backend.
package tables

import (
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/sreshtta/academy/core/academy"
)

type (
	UserRow struct {
		ID     string      `db:"id" json:"id,omitempty"`
		Name   string      `db:"name" json:"name"`
		Email  string      `db:"email" json:"email"`
		Phone  string      `db:"phone" json:"phone"`
		Role   string      `db:"role" json:"role"`
		Avatar null.String `db:"avatar" json:"avatar"`
	}

	// StudentRow.ID is the id of its users row.
	StudentRow struct {
		ID              string         `db:"id" json:"id"`
		StudentID       string         `db:"student_id" json:"student_id"`
		EnrolledCourses pq.StringArray `db:"enrolled_courses" json:"enrolled_courses"`
		PendingFees     int            `db:"pending_fees" json:"pending_fees"`
		TotalFees       int            `db:"total_fees" json:"total_fees"`
		GroupID         null.String    `db:"group_id" json:"group_id"`
		User            *UserRow       `db:"users" json:"users,omitempty"` // joined
	}

	StaffRow struct {
		ID              string         `db:"id" json:"id"`
		StaffID         string         `db:"staff_id" json:"staff_id"`
		AssignedCourses pq.StringArray `db:"assigned_courses" json:"assigned_courses"`
		Department      string         `db:"department" json:"department"`
		User            *UserRow       `db:"users" json:"users,omitempty"` // joined
	}

	CourseRow struct {
		ID           string           `db:"id" json:"id,omitempty"`
		Name         string           `db:"name" json:"name"`
		Description  string           `db:"description" json:"description"`
		TutorID      string           `db:"tutor_id" json:"tutor_id"`
		TutorName    string           `db:"tutor_name" json:"tutor_name"`
		Department   string           `db:"department" json:"department"`
		AdmissionFee int              `db:"admission_fee" json:"admission_fee"`
		MonthlyFee   int              `db:"monthly_fee" json:"monthly_fee"`
		Fees         int              `db:"fees" json:"fees"`
		Duration     string           `db:"duration" json:"duration"`
		Schedule     academy.Schedule `db:"schedule" json:"schedule"`
		StartDate    null.String      `db:"start_date" json:"start_date"`
		Capacity     int              `db:"capacity" json:"capacity"`
		Enrolled     int              `db:"enrolled" json:"enrolled"`
	}

	AttendanceRow struct {
		ID        string `db:"id" json:"id,omitempty"`
		StudentID string `db:"student_id" json:"student_id"`
		CourseID  string `db:"course_id" json:"course_id"`
		Date      string `db:"date" json:"date"`
		Status    string `db:"status" json:"status"`
	}

	GroupRow struct {
		ID          string         `db:"id" json:"id,omitempty"`
		Name        string         `db:"name" json:"name"`
		ProgramName string         `db:"program_name" json:"program_name"`
		BatchTime   string         `db:"batch_time" json:"batch_time"`
		Fees        int            `db:"fees" json:"fees"`
		Students    pq.StringArray `db:"students" json:"students"`
		CreatedBy   string         `db:"created_by" json:"created_by"`
		CreatedAt   string         `db:"created_at" json:"created_at"`
	}

	PaymentRow struct {
		ID            string      `db:"id" json:"id,omitempty"`
		StudentID     string      `db:"student_id" json:"student_id"`
		Amount        int         `db:"amount" json:"amount"`
		Date          string      `db:"date" json:"date"`
		Method        string      `db:"method" json:"method"`
		Status        string      `db:"status" json:"status"`
		TransactionID null.String `db:"transaction_id" json:"transaction_id"`
	}
)

// nullString maps "" to NULL.
func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func stringArray(list []string) pq.StringArray {
	if list == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(list)
}

func stringList(arr pq.StringArray) []string {
	if arr == nil {
		return []string{}
	}
	return []string(arr)
}

func FromUser(u academy.User) UserRow {
	return UserRow{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role), Avatar: nullString(u.Avatar)}
}

func (r UserRow) User() academy.User {
	return academy.User{ID: r.ID, Name: r.Name, Email: r.Email, Phone: r.Phone, Role: academy.Role(r.Role), Avatar: r.Avatar.String}
}

// FromStudent returns the users & students rows of s.
func FromStudent(s academy.Student) (UserRow, StudentRow) {
	u := FromUser(s.User)
	u.Role = string(academy.RoleStudent)
	return u, StudentRow{
		ID:              s.ID,
		StudentID:       s.StudentID,
		EnrolledCourses: stringArray(s.EnrolledCourses),
		PendingFees:     s.PendingFees,
		TotalFees:       s.TotalFees,
		GroupID:         nullString(s.GroupID),
	}
}

// Student joins r with its user row; User may be nil when the join is missing.
func (r StudentRow) Student() academy.Student {
	s := academy.Student{
		StudentID:       r.StudentID,
		EnrolledCourses: stringList(r.EnrolledCourses),
		PendingFees:     r.PendingFees,
		TotalFees:       r.TotalFees,
		GroupID:         r.GroupID.String,
	}
	if r.User != nil {
		s.User = r.User.User()
	}
	s.ID = r.ID
	s.Role = academy.RoleStudent
	return s
}

func FromStaff(m academy.Staff) (UserRow, StaffRow) {
	u := FromUser(m.User)
	u.Role = string(academy.RoleStaff)
	return u, StaffRow{
		ID:              m.ID,
		StaffID:         m.StaffID,
		AssignedCourses: stringArray(m.AssignedCourses),
		Department:      m.Department,
	}
}

func (r StaffRow) Staff() academy.Staff {
	m := academy.Staff{
		StaffID:         r.StaffID,
		AssignedCourses: stringList(r.AssignedCourses),
		Department:      r.Department,
	}
	if r.User != nil {
		m.User = r.User.User()
	}
	m.ID = r.ID
	m.Role = academy.RoleStaff
	return m
}

func FromCourse(c academy.Course) CourseRow {
	return CourseRow{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		TutorID:      c.TutorID,
		TutorName:    c.TutorName,
		Department:   c.Department,
		AdmissionFee: c.AdmissionFee,
		MonthlyFee:   c.MonthlyFee,
		Fees:         c.Fees,
		Duration:     c.Duration,
		Schedule:     c.Schedule,
		StartDate:    nullString(c.StartDate),
		Capacity:     c.Capacity,
		Enrolled:     c.Enrolled,
	}
}

func (r CourseRow) Course() academy.Course {
	return academy.Course{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		TutorID:      r.TutorID,
		TutorName:    r.TutorName,
		Department:   r.Department,
		AdmissionFee: r.AdmissionFee,
		MonthlyFee:   r.MonthlyFee,
		Fees:         r.Fees,
		Duration:     r.Duration,
		Schedule:     r.Schedule,
		StartDate:    r.StartDate.String,
		Capacity:     r.Capacity,
		Enrolled:     r.Enrolled,
	}
}

func FromAttendance(a academy.AttendanceRecord) AttendanceRow {
	return AttendanceRow{ID: a.ID, StudentID: a.StudentID, CourseID: a.CourseID, Date: a.Date, Status: string(a.Status)}
}

func (r AttendanceRow) Record() academy.AttendanceRecord {
	return academy.AttendanceRecord{
		ID:        r.ID,
		StudentID: r.StudentID,
		CourseID:  r.CourseID,
		Date:      r.Date,
		Status:    academy.AttendanceStatus(r.Status),
	}
}

func FromGroup(g academy.Group) GroupRow {
	return GroupRow{
		ID:          g.ID,
		Name:        g.Name,
		ProgramName: g.ProgramName,
		BatchTime:   g.BatchTime,
		Fees:        g.Fees,
		Students:    stringArray(g.Students),
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
	}
}

func (r GroupRow) Group() academy.Group {
	return academy.Group{
		ID:          r.ID,
		Name:        r.Name,
		ProgramName: r.ProgramName,
		BatchTime:   r.BatchTime,
		Fees:        r.Fees,
		Students:    stringList(r.Students),
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

func FromPayment(p academy.FeePayment) PaymentRow {
	return PaymentRow{
		ID:            p.ID,
		StudentID:     p.StudentID,
		Amount:        p.Amount,
		Date:          p.Date,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: nullString(p.TransactionID),
	}
}

func (r PaymentRow) Payment() academy.FeePayment {
	return academy.FeePayment{
		ID:            r.ID,
		StudentID:     r.StudentID,
		Amount:        r.Amount,
		Date:          r.Date,
		Method:        academy.PaymentMethod(r.Method),
		Status:        academy.PaymentStatus(r.Status),
		TransactionID: r.TransactionID.String,
	}
}
