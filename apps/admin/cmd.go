package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/session"
	"github.com/sreshtta/academy/core/store"
)

var (
	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in: run `admin login -email EMAIL` first")
)

type commandLine struct {
	conf     *core.Config
	store    *store.Store
	sessions *session.Manager
	mailer   core.EmailService
	out      io.Writer
	table    bool // tables for terminals, JSON otherwise
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL - log in as the account using EMAIL")
	fmt.Fprintln(cli.out, "  logout - end the current session")
	fmt.Fprintln(cli.out, "  whoami - print the logged in user")
	fmt.Fprintln(cli.out, "  migrate up|down|status|reset - run the database migrations")
	fmt.Fprintln(cli.out, "  students [-search TEXT] [-fee-status paid|pending] [-course ID] [-ordering FIELDS] - list students")
	fmt.Fprintln(cli.out, "  pay -student ID -amount N [-method cash|card|online|upi] - record a fee payment")
	fmt.Fprintln(cli.out, "  attend -student ID -course ID [-date YYYY-MM-DD] -status present|absent|late - mark attendance")
	fmt.Fprintln(cli.out, "  report [-out FILE] - export the fees workbook")
	fmt.Fprintln(cli.out, "  remind - mail the students with pending fees")
}

// requireRole returns the logged in user if they have one of roles.
func (cli *commandLine) requireRole(ctx context.Context, roles ...academy.Role) (academy.User, error) {
	usr, err := cli.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return academy.User{}, errNotLoggedIn
		}
		return academy.User{}, err
	}
	for _, role := range roles {
		if usr.Role == role {
			return usr, nil
		}
	}
	return academy.User{}, fmt.Errorf("permission denied: %s cannot do this", usr.Role)
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginEmail := loginCmd.String("email", "", "The email of the account.")

	studentsCmd := flag.NewFlagSet("students", flag.ContinueOnError)
	studentsSearch := studentsCmd.String("search", "", "Matches names, emails & student ids.")
	studentsFeeStatus := studentsCmd.String("fee-status", "", "paid or pending.")
	studentsCourse := studentsCmd.String("course", "", "Only the students of this course.")
	studentsOrdering := studentsCmd.String("ordering", "name", "e.g. -pendingFees,name")

	payCmd := flag.NewFlagSet("pay", flag.ContinueOnError)
	payStudent := payCmd.String("student", "", "The student id.")
	payAmount := payCmd.Int("amount", 0, "The amount paid.")
	payMethod := payCmd.String("method", string(academy.Cash), "cash, card, online or upi.")

	attendCmd := flag.NewFlagSet("attend", flag.ContinueOnError)
	attendStudent := attendCmd.String("student", "", "The student id.")
	attendCourse := attendCmd.String("course", "", "The course id.")
	attendDate := attendCmd.String("date", "", "YYYY-MM-DD, today by default.")
	attendStatus := attendCmd.String("status", "", "present, absent or late.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportOut := reportCmd.String("out", "fees.xlsx", "The workbook to write.")

	for _, fs := range []*flag.FlagSet{loginCmd, studentsCmd, payCmd, attendCmd, reportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginEmail)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami(ctx)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2])
	case "students":
		if err := studentsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		q := academy.StudentQuery{Search: *studentsSearch, FeeStatus: academy.PaymentStatus(*studentsFeeStatus), CourseID: *studentsCourse}
		return cli.students(ctx, q, *studentsOrdering)
	case "pay":
		if err := payCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *payStudent == "" || *payAmount == 0 {
			payCmd.Usage()
			return errHelp
		}
		return cli.pay(ctx, *payStudent, *payAmount, academy.PaymentMethod(*payMethod))
	case "attend":
		if err := attendCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *attendStudent == "" || *attendCourse == "" || *attendStatus == "" {
			attendCmd.Usage()
			return errHelp
		}
		return cli.attend(ctx, *attendStudent, *attendCourse, *attendDate, academy.AttendanceStatus(*attendStatus))
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.report(ctx, *reportOut)
	case "remind":
		return cli.remind(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}
