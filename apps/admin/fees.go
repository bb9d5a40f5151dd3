package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
	reportsvc "github.com/sreshtta/academy/services/report"
)

func (cli *commandLine) report(ctx context.Context, path string) error {
	if _, err := cli.requireRole(ctx, academy.RoleAdmin); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report")
	}
	snap := cli.store.Snapshot()
	err = reportsvc.Write(f, reportsvc.Data{Students: snap.Students, Courses: snap.Courses, Payments: snap.Payments, Now: time.Now()})
	if cerr := f.Close(); err == nil {
		err = errors.Wrap(cerr, "closing report")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "fees report written to %s\n", path)
	return nil
}

func (cli *commandLine) remind(ctx context.Context) error {
	if _, err := cli.requireRole(ctx, academy.RoleAdmin); err != nil {
		return err
	}
	students := cli.store.Students(academy.StudentQuery{FeeStatus: academy.Pending}, nil)
	msgs := academy.FeeReminders(students, func(s academy.Student) []academy.MonthlyFee {
		months, _ := cli.store.MonthlyFees(s.ID)
		return months
	})
	cli.mailer.SendMessages(msgs...)
	fmt.Fprintf(cli.out, "%d reminders sent\n", len(msgs))
	return nil
}
