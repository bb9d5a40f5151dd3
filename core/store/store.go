package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
)

// LocalIDPrefix marks ids assigned to records not yet saved remotely.
const LocalIDPrefix = "local-"

// Outcome tells where a mutation was saved.
type Outcome string

const (
	// Synced: the backend accepted the mutation.
	Synced Outcome = "synced"
	// Queued: the backend failed; the mutation is applied locally and waits in the outbox.
	Queued Outcome = "queued"
)

func (o Outcome) IsSynced() bool { return o == Synced }

type Options struct {
	Backend  academy.Backend
	Logger   core.Logger
	Validate *validator.Validate // academy.NewValidator() if nil
	Seed     *Snapshot           // initial collections, e.g. Fixtures(); empty if nil
	Accounts []academy.User      // extra login accounts, e.g. DemoAccounts
	Now      func() time.Time
}

// Store holds the academy collections in memory and keeps them in step with the backend.
//
// Reads are served from memory. A mutation is sent to the backend first: on success the outbox is
// replayed and the collections refreshed; on failure the mutation is applied locally and queued in the
// outbox until a later Sync (or successful mutation) replays it.
type Store struct {
	backend  academy.Backend
	log      core.Logger
	validate *validator.Validate
	now      func() time.Time
	status   *Status
	accounts []academy.User

	users      *Repository[academy.User, academy.UserPatch]
	students   *Repository[academy.Student, academy.StudentPatch]
	staff      *Repository[academy.Staff, academy.StaffPatch]
	courses    *Repository[academy.Course, academy.CoursePatch]
	groups     *Repository[academy.Group, academy.GroupPatch]
	payments   *Repository[academy.FeePayment, academy.FeePaymentPatch]
	attendance *AttendanceRepository

	mu      sync.RWMutex
	base    Snapshot          // last known backend state
	view    Snapshot          // base + pending local mutations
	pending []*op             // outbox, oldest first
	ids     map[string]string // local id -> server id

	syncMu sync.Mutex // serializes outbox replays & refreshes
}

func New(opts Options) *Store {
	if opts.Validate == nil {
		opts.Validate, _ = academy.NewValidator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	status := new(Status)
	s := &Store{
		backend:  opts.Backend,
		log:      opts.Logger,
		validate: opts.Validate,
		now:      opts.Now,
		status:   status,
		accounts: opts.Accounts,
		ids:      make(map[string]string),

		users:      NewRepository(academy.TableUsers, opts.Backend.Users(), status, opts.Logger),
		students:   NewRepository(academy.TableStudents, opts.Backend.Students(), status, opts.Logger),
		staff:      NewRepository(academy.TableStaff, opts.Backend.Staff(), status, opts.Logger),
		courses:    NewRepository(academy.TableCourses, opts.Backend.Courses(), status, opts.Logger),
		groups:     NewRepository(academy.TableGroups, opts.Backend.Groups(), status, opts.Logger),
		payments:   NewRepository(academy.TableFeePayments, opts.Backend.Payments(), status, opts.Logger),
		attendance: NewAttendanceRepository(opts.Backend.Attendance(), status, opts.Logger),
	}
	if opts.Seed != nil {
		s.base = opts.Seed.Clone()
	} else {
		s.base = Snapshot{}.Clone()
	}
	s.view = s.base.Clone()
	return s
}

func (s *Store) Status() *Status { return s.status }

func newLocalID() string { return LocalIDPrefix + uuid.New().String() }

func IsLocalID(id string) bool { return strings.HasPrefix(id, LocalIDPrefix) }

func (s *Store) today() string { return s.now().Format(academy.DateLayout) }

// resolve maps a local id to its server id once the record was synced.
func (s *Store) resolve(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolveID(s.ids, id)
}

func resolveID(ids map[string]string, id string) string {
	if sid, ok := ids[id]; ok {
		return sid
	}
	return id
}

func resolveIDs(ids map[string]string, list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i, id := range list {
		out[i] = resolveID(ids, id)
	}
	return out
}

// commit applies a change the backend accepted to the known backend state.
func (s *Store) commit(fn func(d *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.base)
	s.rebuild()
}

// rebuild recomputes view from base and the outbox. Callers hold mu.
func (s *Store) rebuild() {
	s.view = s.base.Clone()
	for _, o := range s.pending {
		o.local(&s.view, s.ids)
	}
}

// settle runs after a successful mutation: replay the outbox then refresh.
// Failures are logged only, the mutation itself succeeded.
func (s *Store) settle(ctx context.Context) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if _, err := s.replay(ctx); err != nil {
		s.log.Warn("outbox replay stopped", err)
	}
	if err := s.refresh(ctx); err != nil {
		s.log.Warn("refresh incomplete", err)
	}
}

// Snapshot returns a copy of every collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Clone()
}

func (s *Store) read(fn func(d *Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.view)
}

// FindUser returns the user with email among the known users and extra accounts.
func (s *Store) FindUser(email string) (academy.User, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" {
		return academy.User{}, academy.ErrNotFound
	}
	var users []academy.User
	s.read(func(d *Snapshot) { users = d.Users() })
	users = append(users, s.accounts...)
	for _, u := range users {
		if strings.ToLower(u.Email) == email {
			return u, nil
		}
	}
	return academy.User{}, academy.ErrNotFound
}

// User returns the user with id; students & staff take precedence over the extra accounts.
func (s *Store) User(id string) (academy.User, error) {
	var users []academy.User
	s.read(func(d *Snapshot) { users = d.Users() })
	users = append(users, s.accounts...)
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return academy.User{}, academy.ErrNotFound
}

func (s *Store) checkEmailUniqueness(email, excludeID string) error {
	email = core.CleanString(email, true)
	var users []academy.User
	s.read(func(d *Snapshot) { users = d.Users() })
	for _, u := range users {
		if u.ID != excludeID && strings.ToLower(u.Email) == email {
			return core.NewFieldError("email", "a user with this email already exists")
		}
	}
	return nil
}

// Students returns the students matching q, sorted by orderings.
func (s *Store) Students(q academy.StudentQuery, orderings []core.Ordering) []academy.Student {
	var out []academy.Student
	s.read(func(d *Snapshot) {
		for _, st := range academy.FilterStudents(d.Students, q) {
			out = append(out, st.Clone())
		}
	})
	if out == nil {
		out = []academy.Student{}
	}
	academy.SortStudents(out, orderings)
	return out
}

func (s *Store) Student(id string) (academy.Student, error) {
	var (
		st    academy.Student
		found bool
	)
	s.read(func(d *Snapshot) {
		st, found = academy.FindStudent(d.Students, resolveID(s.ids, id))
		st = st.Clone()
	})
	if !found {
		return academy.Student{}, academy.ErrNotFound
	}
	return st, nil
}

func (s *Store) StaffMember(id string) (academy.Staff, error) {
	var (
		m     academy.Staff
		found bool
	)
	s.read(func(d *Snapshot) {
		m, found = academy.FindStaff(d.Staff, resolveID(s.ids, id))
		m = m.Clone()
	})
	if !found {
		return academy.Staff{}, academy.ErrNotFound
	}
	return m, nil
}

func (s *Store) Course(id string) (academy.Course, error) {
	var (
		c     academy.Course
		found bool
	)
	s.read(func(d *Snapshot) {
		c, found = academy.FindCourse(d.Courses, resolveID(s.ids, id))
		c = c.Clone()
	})
	if !found {
		return academy.Course{}, academy.ErrNotFound
	}
	return c, nil
}

func (s *Store) Group(id string) (academy.Group, error) {
	var (
		g     academy.Group
		found bool
	)
	s.read(func(d *Snapshot) {
		g, found = academy.FindGroup(d.Groups, resolveID(s.ids, id))
		g = g.Clone()
	})
	if !found {
		return academy.Group{}, academy.ErrNotFound
	}
	return g, nil
}

// Groups lists the groups created by createdBy, every group if empty.
func (s *Store) Groups(createdBy string) []academy.Group {
	out := []academy.Group{}
	s.read(func(d *Snapshot) {
		for _, g := range d.Groups {
			if createdBy == "" || g.CreatedBy == createdBy {
				out = append(out, g.Clone())
			}
		}
	})
	return out
}

// Payments lists the fee payments of studentID, every payment if empty.
func (s *Store) Payments(studentID string) []academy.FeePayment {
	out := []academy.FeePayment{}
	s.read(func(d *Snapshot) {
		for _, p := range d.Payments {
			if studentID == "" || p.StudentID == studentID {
				out = append(out, p)
			}
		}
	})
	return out
}

// Analytics recomputes the dashboard aggregate.
func (s *Store) Analytics() academy.Analytics {
	var a academy.Analytics
	s.read(func(d *Snapshot) { a = academy.ComputeAnalytics(d.Students, d.Courses) })
	return a
}

func (s *Store) AdminReport() academy.AdminReport {
	var r academy.AdminReport
	s.read(func(d *Snapshot) { r = academy.NewAdminReport(d.Students, d.Staff, d.Courses) })
	return r
}

func (s *Store) StaffReport(staffID string) academy.StaffReport {
	var r academy.StaffReport
	s.read(func(d *Snapshot) { r = academy.NewStaffReport(staffID, d.Students, d.Courses, d.Groups) })
	return r
}

func (s *Store) CourseStats(id string) (academy.CourseStats, error) {
	var (
		cs    academy.CourseStats
		found bool
	)
	s.read(func(d *Snapshot) {
		var c academy.Course
		if c, found = academy.FindCourse(d.Courses, id); found {
			cs = academy.NewCourseStats(c, d.Students)
		}
	})
	if !found {
		return academy.CourseStats{}, academy.ErrNotFound
	}
	return cs, nil
}

func (s *Store) FeeSummary() academy.FeeSummary {
	var sum academy.FeeSummary
	s.read(func(d *Snapshot) { sum = academy.SummarizeFees(d.Students) })
	return sum
}

// MonthlyFees lays out the installments of a student as of now.
func (s *Store) MonthlyFees(studentID string) ([]academy.MonthlyFee, error) {
	var (
		fees  []academy.MonthlyFee
		found bool
	)
	s.read(func(d *Snapshot) {
		var st academy.Student
		if st, found = academy.FindStudent(d.Students, studentID); found {
			fees = academy.MonthlyFeeStatus(st, d.Courses, s.now())
		}
	})
	if !found {
		return nil, academy.ErrNotFound
	}
	return fees, nil
}

// GenerateFees is the total fee of enrolling in courseIDs.
func (s *Store) GenerateFees(courseIDs []string) int {
	var total int
	s.read(func(d *Snapshot) { total = academy.GenerateFees(d.Courses, courseIDs) })
	return total
}

func (s *Store) idsCopy() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[string]string, len(s.ids))
	for k, v := range s.ids {
		ids[k] = v
	}
	return ids
}
