package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
)

func (cli *commandLine) students(ctx context.Context, q academy.StudentQuery, ordering string) error {
	if _, err := cli.requireRole(ctx, academy.RoleAdmin, academy.RoleStaff); err != nil {
		return err
	}
	q.Clean()
	students := cli.store.Students(q, core.ParseOrderings(ordering))
	if len(students) == 0 && q.Search != "" && cli.table {
		if suggestions := academy.SuggestStudents(cli.store.Students(academy.StudentQuery{}, nil), q.Search, 3); len(suggestions) > 0 {
			names := make([]string, 0, len(suggestions))
			for _, s := range suggestions {
				names = append(names, s.Name)
			}
			fmt.Fprintf(cli.out, "no student matches %q; did you mean %s?\n", q.Search, strings.Join(names, ", "))
			return nil
		}
	}
	return cli.print(students, func(w *tableWriter) {
		w.row("ID", "CODE", "NAME", "EMAIL", "COURSES", "PENDING", "TOTAL", "ATTENDANCE")
		for _, s := range students {
			w.row(s.ID, s.StudentID, s.Name, s.Email, strings.Join(s.EnrolledCourses, ","),
				strconv.Itoa(s.PendingFees), strconv.Itoa(s.TotalFees),
				fmt.Sprintf("%.0f%%", academy.AttendancePercent(s.Attendance)))
		}
	})
}

// committed fails for mutations the backend did not take: the outbox does not outlive the process.
func (cli *commandLine) committed(o store.Outcome) error {
	if o.IsSynced() {
		return nil
	}
	return errors.Errorf("not saved, the backend is unreachable: %s", cli.store.Status().LastError())
}

func (cli *commandLine) pay(ctx context.Context, studentID string, amount int, method academy.PaymentMethod) error {
	if _, err := cli.requireRole(ctx, academy.RoleAdmin); err != nil {
		return err
	}
	payment, outcome, err := cli.store.RecordPayment(ctx, studentID, amount, method)
	if err != nil {
		return err
	}
	if err = cli.committed(outcome); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "payment %s of %d by %s: saved\n", payment.TransactionID, payment.Amount, payment.Method)
	return nil
}

func (cli *commandLine) attend(ctx context.Context, studentID, courseID, date string, status academy.AttendanceStatus) error {
	if _, err := cli.requireRole(ctx, academy.RoleAdmin, academy.RoleStaff); err != nil {
		return err
	}
	rec, outcome, err := cli.store.UpdateAttendance(ctx, studentID, courseID, date, status)
	if err != nil {
		return err
	}
	if err = cli.committed(outcome); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s marked %s in course %s on %s: saved\n", rec.StudentID, rec.Status, rec.CourseID, rec.Date)
	return nil
}
