package testutil

import (
	"log"
	"strings"
	"testing"
	"time"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
	logsvc "github.com/sreshtta/academy/services/logger"
	"github.com/sreshtta/academy/storage/database/dummy"
)

// Now is the clock of test stores.
var Now = time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewLogger returns a logger printing to the test log, with rollbar off.
func NewLogger(t *testing.T) *logsvc.RollbarLogger {
	l := logsvc.NewRollbarLogger(log.New(testWriter{t}, "TEST : ", 0), &core.Config{Env: "TEST", Debug: true, TestMode: true})
	l.Enable(false)
	return l
}

// NewBackend returns an in-memory backend holding data.
func NewBackend(data store.Snapshot) *dummydb.DB {
	db := dummydb.Open()
	db.Seed(dummydb.Data{
		Students: data.Students,
		Staff:    data.Staff,
		Courses:  data.Courses,
		Groups:   data.Groups,
		Payments: data.Payments,
		Admins:   data.Admins,
	})
	return db
}

// NewStore returns a store over db, seeded with its content as of now.
func NewStore(t *testing.T, db *dummydb.DB, seed *store.Snapshot) *store.Store {
	return store.New(store.Options{
		Backend:  db,
		Logger:   NewLogger(t),
		Seed:     seed,
		Accounts: store.DemoAccounts,
		Now:      func() time.Time { return Now },
	})
}

// NewFixtureStore returns a store and the backend it talks to, both holding the fixtures.
func NewFixtureStore(t *testing.T) (*store.Store, *dummydb.DB) {
	fixtures := store.Fixtures()
	db := NewBackend(fixtures)
	return NewStore(t, db, &fixtures), db
}

func CreateStudent(t *testing.T, s *store.Store, name, email string, courses ...string) academy.Student {
	t.Helper()
	st, _, err := s.AddStudent(testContext(t), academy.Student{
		User:            academy.User{Name: name, Email: email},
		StudentID:       "ST" + strings.ToUpper(name[:3]),
		EnrolledCourses: courses,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}
