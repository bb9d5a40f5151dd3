package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/session"
	"github.com/sreshtta/academy/core/store"
	emailsvc "github.com/sreshtta/academy/services/email"
	reportsvc "github.com/sreshtta/academy/services/report"
	"github.com/sreshtta/academy/storage/database/dummy"
	testutil "github.com/sreshtta/academy/tests"
)

var conf = &core.Config{
	Env:              "TEST",
	TestMode:         true,
	AppName:          "Sreshtta",
	DefaultFromEmail: "office@sreshtta.com",
	Store:            core.StoreConfig{Driver: core.DriverPostgres},
}

type testCLI struct {
	*commandLine
	db     *dummydb.DB
	mailer *emailsvc.ConsoleService
	buf    *bytes.Buffer
}

func setup(t *testing.T) testCLI {
	st, db := testutil.NewFixtureStore(t)
	mailer := emailsvc.NewConsoleServiceMock(conf, testutil.NewLogger(t), nil)
	buf := new(bytes.Buffer)

	// start CLI
	cli := &commandLine{
		conf:     conf,
		store:    st,
		sessions: session.NewManager(session.NewFileStore(t.TempDir()), st),
		mailer:   mailer,
		out:      buf,
	}
	return testCLI{commandLine: cli, db: db, mailer: mailer, buf: buf}
}

func (cli testCLI) loginAs(t *testing.T, usr academy.User) {
	t.Helper()
	require.NoError(t, cli.run(testutil.Context(t), []string{"admin", "login", "-email", usr.Email}))
	cli.buf.Reset()
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLITests(t *testing.T, cli testCLI, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(testutil.Context(t), args)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Contains(t, err.Error(), tt.wantErrStr)
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)
	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login without email", args: []string{"login"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"students", "-lol"}, wantErr: errHelp},
		{name: "pay without amount", args: []string{"pay", "-student", "1"}, wantErr: errHelp},
		{name: "attend without status", args: []string{"attend", "-student", "1", "-course", "1"}, wantErr: errHelp},
	})
	assert.Contains(t, cli.buf.String(), "Usage:")
}

func Test_commandLine_session(t *testing.T) {
	cli := setup(t)
	ctx := testutil.Context(t)

	require.NoError(t, cli.run(ctx, []string{"admin", "whoami"}))
	assert.Equal(t, "not logged in\n", cli.buf.String())

	err := cli.run(ctx, []string{"admin", "login", "-email", "nobody@sreshtta.com"})
	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)

	cli.buf.Reset()
	require.NoError(t, cli.run(ctx, []string{"admin", "login", "-email", store.DemoAccounts[2].Email}))
	assert.Contains(t, cli.buf.String(), "(admin)")

	cli.buf.Reset()
	require.NoError(t, cli.run(ctx, []string{"admin", "whoami"}))
	var usr academy.User
	require.NoError(t, json.Unmarshal(cli.buf.Bytes(), &usr))
	assert.Equal(t, store.DemoAccounts[2].ID, usr.ID)

	require.NoError(t, cli.run(ctx, []string{"admin", "logout"}))
	_, err = cli.sessions.Current(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	assert.ErrorIs(t, cli.run(ctx, []string{"admin", "students"}), errNotLoggedIn)
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var ran []string
	migrateFunc = func(_ context.Context, _ *core.Config, command string, _ *log.Logger) error {
		ran = append(ran, command)
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "reset", args: []string{"migrate", "reset"}},
	})
	assert.Equal(t, []string{"up", "down", "status", "reset"}, ran)

	rest := *conf
	rest.Store.Driver = core.DriverREST
	cli.conf = &rest
	runCLITests(t, cli, []cliTest{
		{name: "rest driver", args: []string{"migrate", "up"}, wantErrStr: "migrations need the postgres store driver"},
	})
}

func Test_commandLine_students(t *testing.T) {
	cli := setup(t)
	cli.loginAs(t, store.DemoAccounts[0])
	runCLITests(t, cli, []cliTest{
		{name: "student", args: []string{"students"}, wantErrStr: "permission denied"},
	})

	cli.loginAs(t, store.DemoAccounts[1])

	list := func(args ...string) []academy.Student {
		cli.buf.Reset()
		require.NoError(t, cli.run(testutil.Context(t), append([]string{"admin", "students"}, args...)))
		var students []academy.Student
		require.NoError(t, json.Unmarshal(cli.buf.Bytes(), &students))
		return students
	}
	assert.Len(t, list(), 5)
	pending := list("-fee-status", "pending", "-ordering", "-pendingFees")
	if assert.Len(t, pending, 3) {
		assert.Equal(t, "1", pending[0].ID)
	}
	assert.Len(t, list("-course", "4"), 2)

	cli.table = true
	cli.buf.Reset()
	require.NoError(t, cli.run(testutil.Context(t), []string{"admin", "students", "-course", "3"}))
	assert.Contains(t, cli.buf.String(), "ATTENDANCE")
}

func Test_commandLine_pay(t *testing.T) {
	cli := setup(t)
	cli.loginAs(t, store.DemoAccounts[1])
	runCLITests(t, cli, []cliTest{
		{name: "staff", args: []string{"pay", "-student", "1", "-amount", "1000"}, wantErrStr: "permission denied"},
	})

	cli.loginAs(t, store.DemoAccounts[2])
	runCLITests(t, cli, []cliTest{
		{name: "unknown student", args: []string{"pay", "-student", "99", "-amount", "1000"}, wantErr: academy.ErrNotFound},
		{name: "negative amount", args: []string{"pay", "-student", "1", "-amount", "-5"}, wantErr: academy.ErrInvalidPayment},
		{name: "paid", args: []string{"pay", "-student", "1", "-amount", "1000", "-method", "upi"}},
	})
	s, err := cli.store.Student("1")
	require.NoError(t, err)
	assert.Equal(t, 4000, s.PendingFees)
	assert.Contains(t, cli.buf.String(), "by upi: saved\n")

	cli.db.SetOffline(errors.New("offline"))
	runCLITests(t, cli, []cliTest{
		{name: "backend down", args: []string{"pay", "-student", "6", "-amount", "500"}, wantErrStr: "not saved, the backend is unreachable"},
		{name: "no sync command", args: []string{"sync"}, wantErr: errHelp},
	})
}

func Test_commandLine_attend(t *testing.T) {
	cli := setup(t)
	cli.loginAs(t, store.DemoAccounts[1])
	runCLITests(t, cli, []cliTest{
		{name: "bad status", args: []string{"attend", "-student", "5", "-course", "1", "-date", "2024-03-20", "-status", "skipped"}, wantErrStr: "status"},
		{name: "present", args: []string{"attend", "-student", "5", "-course", "1", "-date", "2024-03-20", "-status", "present"}},
	})
	assert.Contains(t, cli.buf.String(), "5 marked present in course 1 on 2024-03-20: saved")
}

func Test_commandLine_reportAndRemind(t *testing.T) {
	cli := setup(t)
	cli.loginAs(t, store.DemoAccounts[2])
	out := filepath.Join(t.TempDir(), "fees.xlsx")

	runCLITests(t, cli, []cliTest{
		{name: "report", args: []string{"report", "-out", out}},
		{name: "remind", args: []string{"remind"}},
	})

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	book, err := excelize.OpenReader(f)
	require.NoError(t, err)
	assert.Contains(t, book.GetSheetList(), reportsvc.FeesSheet)

	assert.Contains(t, cli.buf.String(), "3 reminders sent")
	assert.Len(t, cli.mailer.Sent(), 3)
}
