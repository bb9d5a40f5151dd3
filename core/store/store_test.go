package store_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
	"github.com/sreshtta/academy/storage/database/dummy"
	testutil "github.com/sreshtta/academy/tests"
)

var errOffline = errors.New("dial tcp: connection refused")

func newStudent(name, email string, courses ...string) academy.Student {
	return academy.Student{
		User:            academy.User{Name: name, Email: email, Phone: "+91 9000000000"},
		StudentID:       "ST1" + strings.ToUpper(name[:2]),
		EnrolledCourses: courses,
		TotalFees:       9000,
		PendingFees:     9000,
	}
}

func remoteStudents(t *testing.T, db *dummydb.DB) []academy.Student {
	t.Helper()
	rows, err := db.Students().Select(testutil.Context(t), nil)
	require.NoError(t, err)
	return rows
}

func TestStore_AddStudent(t *testing.T) {
	t.Run("online", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		st, outcome, err := s.AddStudent(ctx, newStudent("Kavya Rao", "kavya@example.com", "1"))
		require.NoError(t, err)
		assert.Equal(t, store.Synced, outcome)
		assert.False(t, store.IsLocalID(st.ID))
		assert.Equal(t, academy.RoleStudent, st.Role)

		got, err := s.Student(st.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kavya Rao", got.Name)
		assert.NotNil(t, got.Attendance)
		assert.Len(t, remoteStudents(t, db), 6)
		assert.Empty(t, s.SyncStatus().Pending)
	})

	t.Run("offline then sync", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)
		db.SetOffline(errOffline)

		st, outcome, err := s.AddStudent(ctx, newStudent("Kavya Rao", "kavya@example.com", "1"))
		require.NoError(t, err)
		assert.Equal(t, store.Queued, outcome)
		assert.True(t, store.IsLocalID(st.ID))
		assert.Len(t, s.Students(academy.StudentQuery{}, nil), 6)
		assert.Len(t, s.SyncStatus().Pending, 1)
		assert.Contains(t, s.SyncStatus().LastError, "connection refused")

		report, err := s.Sync(ctx)
		require.Error(t, err)
		assert.Equal(t, store.SyncReport{Replayed: 0, Pending: 1}, report)

		db.SetOffline(nil)
		report, err = s.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, store.SyncReport{Replayed: 1, Pending: 0}, report)

		remote := remoteStudents(t, db)
		require.Len(t, remote, 6)
		serverID := remote[5].ID
		assert.False(t, store.IsLocalID(serverID))

		// the local id keeps resolving
		got, err := s.Student(st.ID)
		require.NoError(t, err)
		assert.Equal(t, serverID, got.ID)
		assert.Len(t, s.Students(academy.StudentQuery{}, nil), 6)
	})

	t.Run("invalid", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		calls := db.Calls()

		_, _, err := s.AddStudent(testutil.Context(t), academy.Student{User: academy.User{Name: "No Email"}, StudentID: "ST9"})
		assert.Error(t, err)
		assert.Equal(t, calls, db.Calls())
	})

	t.Run("email taken", func(t *testing.T) {
		s, _ := testutil.NewFixtureStore(t)
		_, _, err := s.AddStudent(testutil.Context(t), newStudent("Arjun Again", "ARJUN@example.com"))
		require.Error(t, err)
		assert.True(t, core.IsValidationError(err))
	})
}

func TestStore_QueuedReferences(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)
	db.SetOffline(errOffline)

	course, outcome, err := s.AddCourse(ctx, academy.Course{Name: "Clay Modelling", TutorID: "2", Capacity: 12, AdmissionFee: 500, MonthlyFee: 1000})
	require.NoError(t, err)
	require.Equal(t, store.Queued, outcome)
	assert.Equal(t, "Priya Patel", course.TutorName)

	st, _, err := s.AddStudent(ctx, newStudent("Kavya Rao", "kavya@example.com", course.ID))
	require.NoError(t, err)
	_, outcome, err = s.UpdateStudent(ctx, st.ID, academy.StudentPatch{UserPatch: academy.UserPatch{Phone: academy.String("+91 9111111111")}})
	require.NoError(t, err)
	assert.Equal(t, store.Queued, outcome)

	local, err := s.Student(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "+91 9111111111", local.Phone)
	assert.Equal(t, []string{course.ID}, local.EnrolledCourses)

	db.SetOffline(nil)
	report, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Replayed)

	remoteCourses, err := db.Courses().Select(ctx, academy.Filter{academy.ColTutorID: "2"})
	require.NoError(t, err)
	var courseID string
	for _, c := range remoteCourses {
		if c.Name == "Clay Modelling" {
			courseID = c.ID
		}
	}
	require.NotEmpty(t, courseID)

	rows, err := db.Students().Select(ctx, academy.Filter{academy.ColEmail: "kavya@example.com"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "+91 9111111111", rows[0].Phone)
	assert.Equal(t, []string{courseID}, rows[0].EnrolledCourses)
}

func TestStore_ReplayStopsAtFirstFailure(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)
	db.SetOffline(errOffline)

	_, _, err := s.AddStudent(ctx, newStudent("Kavya Rao", "kavya@example.com"))
	require.NoError(t, err)
	// conflicts with a backend row the store does not know yet
	require.NoError(t, func() error {
		db.SetOffline(nil)
		defer db.SetOffline(errOffline)
		_, err := db.Users().Insert(ctx, academy.User{Name: "Taken", Email: "meera@example.com", Role: academy.RoleAdmin})
		return err
	}())
	_, _, err = s.AddStudent(ctx, newStudent("Meera Nair", "meera@example.com"))
	require.NoError(t, err)
	_, _, err = s.AddStudent(ctx, newStudent("Dev Iyer", "dev@example.com"))
	require.NoError(t, err)

	db.SetOffline(nil)
	report, err := s.Sync(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replaying outbox")
	assert.Equal(t, 1, report.Replayed)
	assert.Equal(t, 2, report.Pending)
	assert.Len(t, s.SyncStatus().Pending, 2)
	assert.Len(t, s.Students(academy.StudentQuery{}, nil), 8)
}

func TestStore_RefreshKeepsCollectionsOnEmptyFetch(t *testing.T) {
	fixtures := store.Fixtures()
	db := dummydb.Open()
	s := testutil.NewStore(t, db, &fixtures)

	require.NoError(t, s.RefreshData(testutil.Context(t)))
	assert.Len(t, s.Students(academy.StudentQuery{}, nil), 5)
	arjun, err := s.Student("1")
	require.NoError(t, err)
	assert.Len(t, arjun.Attendance, 5)
	assert.Len(t, s.Snapshot().Courses, 4)
}

func TestStore_RefreshFailure(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	db.SetOffline(errOffline)

	err := s.RefreshData(testutil.Context(t))
	require.Error(t, err)
	assert.True(t, store.IsRemoteError(err))
	assert.Len(t, s.Students(academy.StudentQuery{}, nil), 5)
	assert.False(t, s.Status().Busy())
}

func TestStore_Remove(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)

	outcome, err := s.RemoveStudent(ctx, "8")
	require.NoError(t, err)
	assert.Equal(t, store.Synced, outcome)
	_, err = s.Student("8")
	assert.ErrorIs(t, err, academy.ErrNotFound)
	assert.Len(t, remoteStudents(t, db), 4)

	_, err = s.RemoveStudent(ctx, "8")
	assert.ErrorIs(t, err, academy.ErrNotFound)

	t.Run("queued delete of a queued create", func(t *testing.T) {
		db.SetOffline(errOffline)
		st, _, err := s.AddStudent(ctx, newStudent("Kavya Rao", "kavya@example.com"))
		require.NoError(t, err)
		outcome, err := s.RemoveStudent(ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, store.Queued, outcome)
		assert.Len(t, s.Students(academy.StudentQuery{}, nil), 4)

		db.SetOffline(nil)
		report, err := s.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Replayed)
		assert.Len(t, remoteStudents(t, db), 4)
	})

	t.Run("emptied collection stays empty", func(t *testing.T) {
		for _, g := range s.Groups("") {
			outcome, err := s.RemoveGroup(ctx, g.ID)
			require.NoError(t, err)
			assert.Equal(t, store.Synced, outcome)
		}
		assert.Empty(t, s.Groups(""))
	})
}

func TestStore_UpdateStaff(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)
	db.SetOffline(errOffline)

	m, outcome, err := s.UpdateStaff(ctx, "2", academy.StaffPatch{UserPatch: academy.UserPatch{Name: academy.String("Priya Sharma")}})
	require.NoError(t, err)
	assert.Equal(t, store.Queued, outcome)
	assert.Equal(t, "Priya Sharma", m.Name)
	for _, c := range s.Snapshot().Courses {
		if c.TutorID == "2" {
			assert.Equal(t, "Priya Sharma", c.TutorName)
		}
	}

	_, _, err = s.UpdateStaff(ctx, "2", academy.StaffPatch{UserPatch: academy.UserPatch{Email: academy.String("rahul@example.com")}})
	assert.True(t, core.IsValidationError(err))
}

func TestStore_Courses(t *testing.T) {
	s, _ := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)

	c, outcome, err := s.AddCourse(ctx, academy.Course{Name: "Clay Modelling", TutorID: "4", Enrolled: 9, Schedule: academy.ParseSchedule("Sat - 11:00 AM")})
	require.NoError(t, err)
	assert.Equal(t, store.Synced, outcome)
	assert.Equal(t, 0, c.Enrolled)
	assert.NotEmpty(t, c.TutorName)

	c, _, err = s.UpdateCourse(ctx, c.ID, academy.CoursePatch{TutorID: academy.String("2")})
	require.NoError(t, err)
	assert.Equal(t, "Priya Patel", c.TutorName)
	assert.Equal(t, []academy.Weekday{academy.Saturday}, c.Schedule.EnabledDays())

	stats, err := s.CourseStats("1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.DerivedEnrolled)
}

func TestStore_Groups(t *testing.T) {
	s, _ := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)

	g, outcome, err := s.CreateGroup(ctx, academy.Group{Name: "Weekend Batch", CreatedBy: "2", Students: []string{"1", "6"}})
	require.NoError(t, err)
	assert.Equal(t, store.Synced, outcome)
	assert.Equal(t, "2024-03-20", g.CreatedAt)
	assert.Len(t, s.Groups("2"), 3)

	g, _, err = s.UpdateGroup(ctx, g.ID, academy.GroupPatch{Students: academy.Strings("1")})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, g.Students)

	_, _, err = s.CreateGroup(ctx, academy.Group{Name: "Orphan"})
	assert.Error(t, err)
}

func TestStore_FindUser(t *testing.T) {
	s, _ := testutil.NewFixtureStore(t)

	u, err := s.FindUser("  Admin@Sreshtta.com ")
	require.NoError(t, err)
	assert.Equal(t, academy.RoleAdmin, u.Role)

	u, err = s.FindUser("sneha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "5", u.ID)

	_, err = s.FindUser("nobody@example.com")
	assert.ErrorIs(t, err, academy.ErrNotFound)
	_, err = s.FindUser("")
	assert.ErrorIs(t, err, academy.ErrNotFound)
}

func TestStore_Reads(t *testing.T) {
	s, _ := testutil.NewFixtureStore(t)

	pending := s.Students(academy.StudentQuery{FeeStatus: academy.Pending}, core.ParseOrderings("-pendingFees"))
	require.Len(t, pending, 3)
	assert.Equal(t, "1", pending[0].ID)

	sum := s.FeeSummary()
	assert.Equal(t, 10000, sum.Pending)
	assert.Equal(t, 3, sum.StudentsWithDue)

	report := s.StaffReport("2")
	assert.NotEmpty(t, report.Courses)

	fees, err := s.MonthlyFees("1")
	require.NoError(t, err)
	assert.NotEmpty(t, fees)
	_, err = s.MonthlyFees("ghost")
	assert.ErrorIs(t, err, academy.ErrNotFound)

	assert.Equal(t, 5, s.Analytics().TotalStudents)
}

func TestStore_MutationAfterQueued(t *testing.T) {
	t.Run("newer update wins", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		db.SetOffline(errOffline)
		_, outcome, err := s.UpdateStudent(ctx, "1", academy.StudentPatch{UserPatch: academy.UserPatch{Name: academy.String("Older Edit")}})
		require.NoError(t, err)
		require.Equal(t, store.Queued, outcome)

		db.SetOffline(nil)
		_, outcome, err = s.UpdateStudent(ctx, "1", academy.StudentPatch{UserPatch: academy.UserPatch{Name: academy.String("Newer Edit")}})
		require.NoError(t, err)
		assert.Equal(t, store.Synced, outcome)
		assert.Empty(t, s.SyncStatus().Pending)

		got, err := s.Student("1")
		require.NoError(t, err)
		assert.Equal(t, "Newer Edit", got.Name)
		rows, err := db.Students().Select(ctx, academy.Filter{academy.ColID: "1"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Newer Edit", rows[0].Name)
	})

	t.Run("newer attendance wins", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		db.SetOffline(errOffline)
		_, outcome, err := s.UpdateAttendance(ctx, "5", "1", "2024-03-20", academy.Late)
		require.NoError(t, err)
		require.Equal(t, store.Queued, outcome)

		db.SetOffline(nil)
		_, outcome, err = s.UpdateAttendance(ctx, "5", "1", "2024-03-20", academy.Present)
		require.NoError(t, err)
		assert.Equal(t, store.Synced, outcome)

		remote, err := db.Attendance().Select(ctx, academy.Filter{academy.ColStudentID: "5", academy.ColCourseID: "1"})
		require.NoError(t, err)
		for _, r := range remote {
			if r.Date == "2024-03-20" {
				assert.Equal(t, academy.Present, r.Status)
			}
		}
		st, err := s.Student("5")
		require.NoError(t, err)
		for _, r := range st.Attendance {
			if r.CourseID == "1" && r.Date == "2024-03-20" {
				assert.Equal(t, academy.Present, r.Status)
			}
		}
	})

	t.Run("still offline keeps order", func(t *testing.T) {
		s, db := testutil.NewFixtureStore(t)
		ctx := testutil.Context(t)

		db.SetOffline(errOffline)
		for _, name := range []string{"First", "Second"} {
			_, outcome, err := s.UpdateStudent(ctx, "1", academy.StudentPatch{UserPatch: academy.UserPatch{Name: academy.String(name)}})
			require.NoError(t, err)
			require.Equal(t, store.Queued, outcome)
		}
		assert.Len(t, s.SyncStatus().Pending, 2)

		db.SetOffline(nil)
		report, err := s.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Replayed)
		got, err := s.Student("1")
		require.NoError(t, err)
		assert.Equal(t, "Second", got.Name)
	})
}

func TestStore_RemoveKeepsDanglingReferences(t *testing.T) {
	s, db := testutil.NewFixtureStore(t)
	ctx := testutil.Context(t)

	outcome, err := s.RemoveCourse(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, store.Synced, outcome)
	_, err = s.Course("1")
	assert.ErrorIs(t, err, academy.ErrNotFound)

	priya, err := s.StaffMember("2")
	require.NoError(t, err)
	assert.Contains(t, priya.AssignedCourses, "1")

	outcome, err = s.RemoveStaff(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, store.Synced, outcome)

	check := func(t *testing.T) {
		for _, id := range []string{"1", "5", "8"} {
			st, err := s.Student(id)
			require.NoError(t, err)
			assert.Contains(t, st.EnrolledCourses, "1", id)
		}
		for _, id := range []string{"2", "4"} {
			c, err := s.Course(id)
			require.NoError(t, err)
			assert.Equal(t, "2", c.TutorID)
			assert.Equal(t, "Priya Patel", c.TutorName)
		}
		_, err := s.StaffMember("2")
		assert.ErrorIs(t, err, academy.ErrNotFound)
	}
	check(t)

	require.NoError(t, s.RefreshData(ctx))
	check(t)

	courses, err := db.Courses().Select(ctx, academy.Filter{academy.ColTutorID: "2"})
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}
