package academy

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/sreshtta/academy/core"
)

// StudentQuery filters students. Zero fields match everything.
type StudentQuery struct {
	// Search does a case-insensitive match on one of Name, Email or StudentID.
	Search    string        `query:"search"`
	FeeStatus PaymentStatus `query:"fee_status"` // paid | pending | overdue
	CourseID  string        `query:"course"`
}

func (q *StudentQuery) Clean() {
	q.Search = core.CleanString(q.Search, true /* lower */)
	q.FeeStatus = PaymentStatus(core.CleanString(string(q.FeeStatus), true))
	q.CourseID = core.CleanString(q.CourseID)
}

func (q StudentQuery) Match(s Student) bool {
	if q.Search != "" {
		search := strings.ToLower(q.Search)
		if !(strings.Contains(strings.ToLower(s.Name), search) ||
			strings.Contains(strings.ToLower(s.Email), search) ||
			strings.Contains(strings.ToLower(s.StudentID), search)) {
			return false
		}
	}
	switch q.FeeStatus {
	case Paid:
		if s.PendingFees != 0 {
			return false
		}
	case Pending, Overdue:
		if s.PendingFees <= 0 {
			return false
		}
	}
	if q.CourseID != "" && !s.IsEnrolled(q.CourseID) {
		return false
	}
	return true
}

// FilterStudents applies AND operation on the StudentQuery fields.
func FilterStudents(students []Student, q StudentQuery) []Student {
	filtered := make([]Student, 0, len(students))
	for _, s := range students {
		if q.Match(s) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// SortStudents sorts by the given orderings; unknown fields are ignored.
func SortStudents(students []Student, orderings []core.Ordering) {
	less := func(a, b Student, field string) (bool, bool) {
		switch field {
		case "name":
			return a.Name < b.Name, a.Name == b.Name
		case "studentId":
			return a.StudentID < b.StudentID, a.StudentID == b.StudentID
		case "pendingFees":
			return a.PendingFees < b.PendingFees, a.PendingFees == b.PendingFees
		case "totalFees":
			return a.TotalFees < b.TotalFees, a.TotalFees == b.TotalFees
		case "attendance":
			ra, rb := AttendanceRate(a.Attendance), AttendanceRate(b.Attendance)
			return ra < rb, ra == rb
		}
		return false, true
	}
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range orderings {
			lt, eq := less(students[i], students[j], ord.Field)
			if eq {
				continue
			}
			if ord.Ascending {
				return lt
			}
			return !lt
		}
		return false
	})
}

// suggestionCutoff is the minimum similarity ratio of a suggestion.
const suggestionCutoff = 0.6

// SuggestStudents returns up to n students whose name is close to `name`, best match first.
// It serves typo-tolerant lookups when an exact search finds nothing.
func SuggestStudents(students []Student, name string, n int) []Student {
	name = core.CleanString(name, true)
	if name == "" || n <= 0 {
		return nil
	}

	type scored struct {
		student Student
		ratio   float64
	}
	target := strings.Split(name, "")
	var matches []scored
	for _, s := range students {
		best := 0.0
		candidates := append([]string{strings.ToLower(s.Name)}, strings.Fields(strings.ToLower(s.Name))...)
		for _, cand := range candidates {
			m := difflib.NewMatcher(strings.Split(cand, ""), target)
			if r := m.Ratio(); r > best {
				best = r
			}
		}
		if best >= suggestionCutoff {
			matches = append(matches, scored{student: s, ratio: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]Student, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.student)
	}
	return out
}
