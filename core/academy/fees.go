package academy

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrInvalidPayment is returned for payments outside (0, pendingFees].
	ErrInvalidPayment = errors.New("payment amount must be positive and not exceed the pending fees")
)

// FeeSummary aggregates the fees of a set of students.
type FeeSummary struct {
	Collected       int     `json:"collected"`
	Pending         int     `json:"pending"`
	Total           int     `json:"total"`
	CollectionRate  float64 `json:"collectionRate"` // percent
	StudentsWithDue int     `json:"studentsWithDue"`
}

func SummarizeFees(students []Student) FeeSummary {
	var sum FeeSummary
	for _, s := range students {
		sum.Collected += s.TotalFees - s.PendingFees
		sum.Pending += s.PendingFees
		sum.Total += s.TotalFees
		if s.PendingFees > 0 {
			sum.StudentsWithDue++
		}
	}
	sum.CollectionRate = CollectionRate(sum.Collected, sum.Pending)
	return sum
}

// CollectionRate is paid / (paid + pending) in percent, 0 when nothing is due.
func CollectionRate(paid, pending int) float64 {
	if paid+pending <= 0 {
		return 0
	}
	return float64(paid) / float64(paid+pending) * 100
}

// GenerateFees is the total fee of enrolling in courseIDs. Unknown ids count for nothing.
func GenerateFees(courses []Course, courseIDs []string) int {
	var total int
	for _, id := range courseIDs {
		if c, ok := FindCourse(courses, id); ok {
			total += CourseFee(c)
		}
	}
	return total
}

// AssignGeneratedFees sets the fees of a newly registered student from their enrolled courses.
// Nothing is paid yet: pending = total.
func AssignGeneratedFees(s *Student, courses []Course) {
	s.TotalFees = GenerateFees(courses, s.EnrolledCourses)
	s.PendingFees = s.TotalFees
}

// ApplyPayment decrements the pending fees of s by amount.
func ApplyPayment(s *Student, amount int) error {
	if amount <= 0 || amount > s.PendingFees {
		return ErrInvalidPayment
	}
	s.PendingFees -= amount
	return nil
}

// BulkAmount is what a bulk payment of amount settles for s: never more than they owe.
func BulkAmount(s Student, amount int) int {
	if amount > s.PendingFees {
		return s.PendingFees
	}
	return amount
}

// MonthlyFeeOf is the sum of the monthly fees of the enrolled courses.
func MonthlyFeeOf(s Student, courses []Course) int {
	var total int
	for _, id := range s.EnrolledCourses {
		if c, ok := FindCourse(courses, id); ok {
			total += c.MonthlyFee
		}
	}
	return total
}

// MonthlyFee is one installment of a student's fee schedule.
type MonthlyFee struct {
	Month   string        `json:"month"` // "January 2024"
	Year    int           `json:"year"`
	Amount  int           `json:"amount"`
	DueDate string        `json:"dueDate"`
	Status  PaymentStatus `json:"status"`
}

// MonthlyFeeStatus lays out the installments of the 6 months before and after now, due on the 15th,
// most recent due date first.
// The pending balance is attributed to the latest past installments (and the current one),
// those past their due date being overdue.
func MonthlyFeeStatus(s Student, courses []Course, now time.Time) []MonthlyFee {
	monthly := MonthlyFeeOf(s, courses)
	unpaid := 0
	if s.PendingFees > 0 {
		unpaid = 1
		if monthly > 0 {
			unpaid = (s.PendingFees + monthly - 1) / monthly
		}
	}

	year, month, _ := now.Date()
	loc := now.Location()
	out := make([]MonthlyFee, 0, 13)
	for i := -6; i <= 6; i++ {
		first := time.Date(year, month+time.Month(i), 1, 0, 0, 0, 0, loc)
		due := time.Date(first.Year(), first.Month(), 15, 0, 0, 0, 0, loc)

		status := Pending
		switch {
		case i < 0:
			status = Paid
			// current month takes the first unpaid slot
			if -i < unpaid {
				status = Overdue
			}
		case i == 0:
			if s.PendingFees == 0 {
				status = Paid
			}
		}
		if status == Pending && due.Before(now) {
			status = Overdue
		}

		out = append(out, MonthlyFee{
			Month:   fmt.Sprintf("%s %d", first.Month(), first.Year()),
			Year:    first.Year(),
			Amount:  monthly,
			DueDate: due.Format(DateLayout),
			Status:  status,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate > out[j].DueDate })
	return out
}

// FeeStatus classifies a student for fee filters.
func FeeStatus(s Student) PaymentStatus {
	if s.PendingFees > 0 {
		return Pending
	}
	return Paid
}
