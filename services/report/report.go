// Package reportsvc exports the academy fees and courses as an XLSX workbook.
package reportsvc

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/sreshtta/academy/core/academy"
)

const (
	SummarySheet  = "Summary"
	FeesSheet     = "Fees"
	PaymentsSheet = "Payments"
	CoursesSheet  = "Courses"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Data is what a fee report is built from.
type Data struct {
	Students []academy.Student
	Courses  []academy.Course
	Payments []academy.FeePayment
	Now      time.Time
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) append(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

func newSheet(f *excelize.File, name string, header ...interface{}) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, errors.Wrapf(err, "creating sheet %s", name)
	}
	w := &sheetWriter{f: f, sheet: name}
	w.append(header...)
	if w.err == nil {
		w.err = f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}
	return w, w.err
}

// Fees builds the workbook: a summary sheet, per student fees, the payment ledger and the courses.
func Fees(d Data) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, errors.Wrap(err, "renaming default sheet")
	}

	sum := academy.SummarizeFees(d.Students)
	summary := &sheetWriter{f: f, sheet: SummarySheet}
	summary.append("Generated", d.Now.Format(time.RFC3339))
	summary.append("Students", len(d.Students))
	summary.append("Collected", sum.Collected)
	summary.append("Pending", sum.Pending)
	summary.append("Total", sum.Total)
	summary.append("Collection rate (%)", round(sum.CollectionRate))
	summary.append("Students with dues", sum.StudentsWithDue)
	if summary.err != nil {
		return nil, errors.Wrap(summary.err, "writing summary")
	}

	fees, err := newSheet(f, FeesSheet, "Student ID", "Name", "Email", "Courses", "Total", "Paid", "Pending", "Status")
	if err != nil {
		return nil, err
	}
	for _, s := range d.Students {
		fees.append(s.StudentID, s.Name, s.Email, len(s.EnrolledCourses),
			s.TotalFees, s.TotalFees-s.PendingFees, s.PendingFees, string(academy.FeeStatus(s)))
	}
	if fees.err != nil {
		return nil, errors.Wrap(fees.err, "writing fees")
	}

	payments, err := newSheet(f, PaymentsSheet, "Date", "Student", "Amount", "Method", "Status", "Transaction")
	if err != nil {
		return nil, err
	}
	for _, p := range d.Payments {
		name := p.StudentID
		if s, ok := academy.FindStudent(d.Students, p.StudentID); ok {
			name = s.Name
		}
		payments.append(p.Date, name, p.Amount, string(p.Method), string(p.Status), p.TransactionID)
	}
	if payments.err != nil {
		return nil, errors.Wrap(payments.err, "writing payments")
	}

	courses, err := newSheet(f, CoursesSheet, "Course", "Tutor", "Schedule", "Enrolled", "Capacity", "Enrollment (%)", "Revenue")
	if err != nil {
		return nil, err
	}
	for _, c := range d.Courses {
		st := academy.NewCourseStats(c, d.Students)
		courses.append(c.Name, c.TutorName, st.Schedule, st.Enrolled, st.Capacity, round(st.EnrollmentPercent), st.Revenue)
	}
	if courses.err != nil {
		return nil, errors.Wrap(courses.err, "writing courses")
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and writes it to w.
func Write(w io.Writer, d Data) error {
	f, err := Fees(d)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrap(f.Write(w), "writing workbook")
}

func round(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
