package academy

import (
	"github.com/go-playground/validator/v10"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

var Roles = []Role{RoleStudent, RoleStaff, RoleAdmin}

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
)

type PaymentMethod string

const (
	Cash   PaymentMethod = "cash"
	Card   PaymentMethod = "card"
	Online PaymentMethod = "online"
	UPI    PaymentMethod = "upi"
)

type PaymentStatus string

const (
	Paid    PaymentStatus = "paid"
	Pending PaymentStatus = "pending"
	Overdue PaymentStatus = "overdue"
)

// DateLayout is the layout of every date held as a string.
const DateLayout = "2006-01-02"

type (
	// User is the identity every Student and Staff member extends.
	User struct {
		ID     string `json:"id"`
		Name   string `json:"name" validate:"required"`
		Email  string `json:"email" validate:"required,email"`
		Phone  string `json:"phone"`
		Role   Role   `json:"role" validate:"required,role"`
		Avatar string `json:"avatar,omitempty"`
	}

	Student struct {
		User
		StudentID       string             `json:"studentId" validate:"required,code"`
		EnrolledCourses []string           `json:"enrolledCourses"`
		PendingFees     int                `json:"pendingFees" validate:"gte=0,ltefield=TotalFees"`
		TotalFees       int                `json:"totalFees" validate:"gte=0"`
		Attendance      []AttendanceRecord `json:"attendance"`
		GroupID         string             `json:"groupId,omitempty"`
	}

	Staff struct {
		User
		StaffID         string   `json:"staffId" validate:"required,code"`
		AssignedCourses []string `json:"assignedCourses"`
		Department      string   `json:"department"`
	}

	Course struct {
		ID           string   `json:"id"`
		Name         string   `json:"name" validate:"required"`
		Description  string   `json:"description"`
		TutorID      string   `json:"tutorId"`
		TutorName    string   `json:"tutorName"`
		Department   string   `json:"department,omitempty"`
		AdmissionFee int      `json:"admissionFee" validate:"gte=0"`
		MonthlyFee   int      `json:"monthlyFee" validate:"gte=0"`
		Fees         int      `json:"fees,omitempty" validate:"gte=0"` // legacy flat fee
		Duration     string   `json:"duration,omitempty"`               // legacy, e.g. "8 weeks"
		Schedule     Schedule `json:"schedule"`
		StartDate    string   `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
		Capacity     int      `json:"capacity" validate:"gte=0"`
		Enrolled     int      `json:"enrolled" validate:"gte=0"`
	}

	// AttendanceRecord is keyed by (StudentID, CourseID, Date).
	AttendanceRecord struct {
		ID        string           `json:"id,omitempty"`
		StudentID string           `json:"studentId,omitempty"`
		CourseID  string           `json:"courseId" validate:"required"`
		Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
		Status    AttendanceStatus `json:"status" validate:"required,attendance_status"`
	}

	Group struct {
		ID          string   `json:"id"`
		Name        string   `json:"name" validate:"required"`
		ProgramName string   `json:"programName"`
		BatchTime   string   `json:"batchTime"`
		Fees        int      `json:"fees" validate:"gte=0"`
		Students    []string `json:"students"`
		CreatedBy   string   `json:"createdBy" validate:"required"`
		CreatedAt   string   `json:"createdAt" validate:"omitempty,datetime=2006-01-02"`
	}

	FeePayment struct {
		ID            string        `json:"id"`
		StudentID     string        `json:"studentId" validate:"required"`
		Amount        int           `json:"amount" validate:"gt=0"`
		Date          string        `json:"date" validate:"required,datetime=2006-01-02"`
		Method        PaymentMethod `json:"method" validate:"required,payment_method"`
		Status        PaymentStatus `json:"status" validate:"required,payment_status"`
		TransactionID string        `json:"transactionId,omitempty"`
	}
)

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsStaff() bool   { return u.Role == RoleStaff }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

func (s *Student) Validate(validate *validator.Validate) error {
	s.Role = RoleStudent
	return validate.Struct(s)
}

// IsEnrolled reports whether the student lists the course.
func (s Student) IsEnrolled(courseID string) bool {
	for _, id := range s.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s Student) Clone() Student {
	s.EnrolledCourses = append([]string(nil), s.EnrolledCourses...)
	s.Attendance = append([]AttendanceRecord(nil), s.Attendance...)
	return s
}

func (s *Staff) Validate(validate *validator.Validate) error {
	s.Role = RoleStaff
	return validate.Struct(s)
}

func (s Staff) Clone() Staff {
	s.AssignedCourses = append([]string(nil), s.AssignedCourses...)
	return s
}

func (c *Course) Validate(validate *validator.Validate) error {
	return validate.Struct(c)
}

func (c Course) Clone() Course {
	c.Schedule = c.Schedule.clone()
	return c
}

func (r *AttendanceRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// SameKey reports whether both records describe the same class-day.
func (r AttendanceRecord) SameKey(o AttendanceRecord) bool {
	return r.StudentID == o.StudentID && r.CourseID == o.CourseID && r.Date == o.Date
}

func (g *Group) Validate(validate *validator.Validate) error {
	return validate.Struct(g)
}

func (g Group) Clone() Group {
	g.Students = append([]string(nil), g.Students...)
	return g
}

func (p *FeePayment) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

// MarkAttendance sets rec on records, overwriting the record of the same course & date if any.
// Every code path recording attendance goes through here so that at most one record per class-day exists.
func MarkAttendance(records []AttendanceRecord, rec AttendanceRecord) []AttendanceRecord {
	for i := range records {
		if records[i].CourseID == rec.CourseID && records[i].Date == rec.Date {
			if rec.ID == "" {
				rec.ID = records[i].ID
			}
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}
