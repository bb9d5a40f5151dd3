package tables

import (
	"github.com/sreshtta/academy/core/academy"
)

// Assignment is one `column = value` of an update.
type Assignment struct {
	Column string
	Value  interface{}
}

// Set lists the columns a patch changes, in a stable order.
type Set []Assignment

func (s Set) add(column string, value interface{}) Set {
	return append(s, Assignment{Column: column, Value: value})
}

// Map returns the set as a JSON-ready object.
func (s Set) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(s))
	for _, a := range s {
		m[a.Column] = a.Value
	}
	return m
}

func (s Set) Columns() []string {
	cols := make([]string, len(s))
	for i, a := range s {
		cols[i] = a.Column
	}
	return cols
}

func UserSet(p academy.UserPatch) Set {
	var s Set
	if p.Name != nil {
		s = s.add("name", *p.Name)
	}
	if p.Email != nil {
		s = s.add("email", *p.Email)
	}
	if p.Phone != nil {
		s = s.add("phone", *p.Phone)
	}
	if p.Avatar != nil {
		s = s.add("avatar", nullString(*p.Avatar))
	}
	return s
}

// StudentSet returns the students columns of p; its user columns are in UserSet(p.UserPatch).
func StudentSet(p academy.StudentPatch) Set {
	var s Set
	if p.StudentID != nil {
		s = s.add("student_id", *p.StudentID)
	}
	if p.EnrolledCourses != nil {
		s = s.add("enrolled_courses", stringArray(*p.EnrolledCourses))
	}
	if p.PendingFees != nil {
		s = s.add("pending_fees", *p.PendingFees)
	}
	if p.TotalFees != nil {
		s = s.add("total_fees", *p.TotalFees)
	}
	if p.GroupID != nil {
		s = s.add("group_id", nullString(*p.GroupID))
	}
	return s
}

func StaffSet(p academy.StaffPatch) Set {
	var s Set
	if p.StaffID != nil {
		s = s.add("staff_id", *p.StaffID)
	}
	if p.AssignedCourses != nil {
		s = s.add("assigned_courses", stringArray(*p.AssignedCourses))
	}
	if p.Department != nil {
		s = s.add("department", *p.Department)
	}
	return s
}

func CourseSet(p academy.CoursePatch) Set {
	var s Set
	for _, col := range []struct {
		name string
		val  *string
	}{
		{"name", p.Name},
		{"description", p.Description},
		{"tutor_id", p.TutorID},
		{"tutor_name", p.TutorName},
		{"department", p.Department},
		{"duration", p.Duration},
	} {
		if col.val != nil {
			s = s.add(col.name, *col.val)
		}
	}
	for _, col := range []struct {
		name string
		val  *int
	}{
		{"admission_fee", p.AdmissionFee},
		{"monthly_fee", p.MonthlyFee},
		{"fees", p.Fees},
		{"capacity", p.Capacity},
	} {
		if col.val != nil {
			s = s.add(col.name, *col.val)
		}
	}
	if p.Schedule != nil {
		s = s.add("schedule", *p.Schedule)
	}
	if p.StartDate != nil {
		s = s.add("start_date", nullString(*p.StartDate))
	}
	return s
}

func GroupSet(p academy.GroupPatch) Set {
	var s Set
	if p.Name != nil {
		s = s.add("name", *p.Name)
	}
	if p.ProgramName != nil {
		s = s.add("program_name", *p.ProgramName)
	}
	if p.BatchTime != nil {
		s = s.add("batch_time", *p.BatchTime)
	}
	if p.Fees != nil {
		s = s.add("fees", *p.Fees)
	}
	if p.Students != nil {
		s = s.add("students", stringArray(*p.Students))
	}
	return s
}

func PaymentSet(p academy.FeePaymentPatch) Set {
	var s Set
	if p.Status != nil {
		s = s.add("status", string(*p.Status))
	}
	if p.TransactionID != nil {
		s = s.add("transaction_id", nullString(*p.TransactionID))
	}
	return s
}
