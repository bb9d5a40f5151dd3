// Package restdb is the academy.Backend of a hosted PostgREST-style API (e.g. Supabase).
// Tables are served under <url>/rest/v1/<table>; rows are filtered with `column=eq.value`.
package restdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/storage/tables"
)

const apiPath = "/rest/v1"

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("status %d", e.StatusCode)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

type Client struct {
	baseURL string
	key     string
	http    *rest.Client
}

var _ academy.Backend = (*Client)(nil) // interface compliance check

// Open returns a client of the API at conf.URL, authenticated with the anon key conf.Key.
func Open(conf core.StoreConfig) (*Client, error) {
	if conf.URL == "" {
		return nil, errors.New("restdb: missing store url")
	}
	return NewClient(conf.URL, conf.Key, conf.Timeout), nil
}

func NewClient(url, key string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(url, "/") + apiPath,
		key:     key,
		http:    &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func (c *Client) Close() error {
	c.http.HTTPClient.CloseIdleConnections()
	return nil
}

// query is the query string of a request: filters, select, on_conflict...
type query map[string]string

func eq(conds []tables.Condition) query {
	q := make(query, len(conds))
	for _, cond := range conds {
		q[cond.Column] = "eq." + cond.Value
	}
	return q
}

func byID(id string) query {
	return query{"id": "eq." + id}
}

func (q query) with(key, val string) query {
	q[key] = val
	return q
}

// do sends a request on table and decodes the JSON answer into out (if not nil).
func (c *Client) do(ctx context.Context, method rest.Method, table string, q query, body, out interface{}, prefer ...string) error {
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + "/" + table,
		Headers: map[string]string{
			"apikey":        c.key,
			"Authorization": "Bearer " + c.key,
			"Accept":        "application/json",
			"Prefer":        strings.Join(append([]string{"return=representation"}, prefer...), ","),
		},
		QueryParams: q,
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encoding %s body", table)
		}
		req.Body = b
		req.Headers["Content-Type"] = "application/json"
	}

	res, err := c.http.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, table)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if jerr := json.Unmarshal([]byte(res.Body), apiErr); jerr != nil {
			apiErr.Message = strings.TrimSpace(res.Body)
		}
		return apiErr
	}
	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	return errors.Wrapf(json.Unmarshal([]byte(res.Body), out), "decoding %s", table)
}

// one returns the single row of a representation, ErrNotFound when empty.
func one[R any](rows []R, table, id string) (R, error) {
	if len(rows) == 0 {
		var zero R
		return zero, errors.Wrapf(academy.ErrNotFound, "%s %s", table, id)
	}
	return rows[0], nil
}

func (c *Client) Users() academy.Table[academy.User, academy.UserPatch] {
	return &table[academy.User, academy.UserPatch, tables.UserRow]{
		c:       c,
		name:    academy.TableUsers,
		toRow:   tables.FromUser,
		fromRow: tables.UserRow.User,
		set:     tables.UserSet,
	}
}

func (c *Client) Students() academy.Table[academy.Student, academy.StudentPatch] {
	return &personTable[academy.Student, academy.StudentPatch, tables.StudentRow]{
		c:         c,
		name:      academy.TableStudents,
		role:      academy.RoleStudent,
		split:     tables.FromStudent,
		join:      tables.StudentRow.Student,
		setID:     func(r *tables.StudentRow, id string) { r.ID = id },
		attach:    func(r *tables.StudentRow, u *tables.UserRow) { r.User = u },
		userPatch: func(p academy.StudentPatch) academy.UserPatch { return p.UserPatch },
		set:       tables.StudentSet,
	}
}

func (c *Client) Staff() academy.Table[academy.Staff, academy.StaffPatch] {
	return &personTable[academy.Staff, academy.StaffPatch, tables.StaffRow]{
		c:         c,
		name:      academy.TableStaff,
		role:      academy.RoleStaff,
		split:     tables.FromStaff,
		join:      tables.StaffRow.Staff,
		setID:     func(r *tables.StaffRow, id string) { r.ID = id },
		attach:    func(r *tables.StaffRow, u *tables.UserRow) { r.User = u },
		userPatch: func(p academy.StaffPatch) academy.UserPatch { return p.UserPatch },
		set:       tables.StaffSet,
	}
}

func (c *Client) Courses() academy.Table[academy.Course, academy.CoursePatch] {
	return &table[academy.Course, academy.CoursePatch, tables.CourseRow]{
		c:       c,
		name:    academy.TableCourses,
		toRow:   tables.FromCourse,
		fromRow: tables.CourseRow.Course,
		set:     tables.CourseSet,
	}
}

func (c *Client) Groups() academy.Table[academy.Group, academy.GroupPatch] {
	return &table[academy.Group, academy.GroupPatch, tables.GroupRow]{
		c:       c,
		name:    academy.TableGroups,
		toRow:   tables.FromGroup,
		fromRow: tables.GroupRow.Group,
		set:     tables.GroupSet,
	}
}

func (c *Client) Payments() academy.Table[academy.FeePayment, academy.FeePaymentPatch] {
	return &table[academy.FeePayment, academy.FeePaymentPatch, tables.PaymentRow]{
		c:       c,
		name:    academy.TableFeePayments,
		toRow:   tables.FromPayment,
		fromRow: tables.PaymentRow.Payment,
		set:     tables.PaymentSet,
	}
}

func (c *Client) Attendance() academy.AttendanceTable {
	return &attendanceTable{c: c}
}
