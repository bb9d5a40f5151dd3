package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sreshtta/academy/core/academy"
)

// RefreshData reloads every collection from the backend.
// A collection is replaced only when its fetch returned rows: an empty (or failed) fetch keeps the
// collection held so far. Queued local mutations are re-applied on top.
func (s *Store) RefreshData(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	return s.refresh(ctx)
}

// refresh is RefreshData for callers holding syncMu.
func (s *Store) refresh(ctx context.Context) error {
	var (
		students   Result[[]academy.Student]
		staff      Result[[]academy.Staff]
		courses    Result[[]academy.Course]
		groups     Result[[]academy.Group]
		payments   Result[[]academy.FeePayment]
		admins     Result[[]academy.User]
		attendance Result[[]academy.AttendanceRecord]
	)

	// fetches are independent: one failing must not cancel the others
	var g errgroup.Group
	g.Go(func() error { students = s.students.List(ctx, nil); return students.Err })
	g.Go(func() error { staff = s.staff.List(ctx, nil); return staff.Err })
	g.Go(func() error { courses = s.courses.List(ctx, nil); return courses.Err })
	g.Go(func() error { groups = s.groups.List(ctx, nil); return groups.Err })
	g.Go(func() error { payments = s.payments.List(ctx, nil); return payments.Err })
	g.Go(func() error {
		admins = s.users.List(ctx, academy.Filter{academy.ColRole: string(academy.RoleAdmin)})
		return admins.Err
	})
	g.Go(func() error { attendance = s.attendance.List(ctx, nil); return attendance.Err })
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	records := attendance.Value
	if len(records) == 0 {
		for _, st := range s.base.Students {
			for _, r := range st.Attendance {
				if r.StudentID == "" {
					r.StudentID = st.ID
				}
				records = append(records, r)
			}
		}
	}
	if len(students.Value) > 0 {
		s.base.Students = students.Value
	}
	academy.AttachAttendance(s.base.Students, records)

	if len(staff.Value) > 0 {
		s.base.Staff = staff.Value
	}
	if len(courses.Value) > 0 {
		s.base.Courses = courses.Value
	}
	if len(groups.Value) > 0 {
		s.base.Groups = groups.Value
	}
	if len(payments.Value) > 0 {
		s.base.Payments = payments.Value
	}
	if len(admins.Value) > 0 {
		s.base.Admins = admins.Value
	}
	s.rebuild()
	return err
}
