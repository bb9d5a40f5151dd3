package sqlxdb

import (
	"strconv"
	"strings"

	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/storage/tables"
)

// schema describes how a table is read & written.
type schema struct {
	name    string
	columns []string          // selected columns, db tag names
	dates   map[string]bool   // date columns, read as YYYY-MM-DD text
	insert  []string          // inserted columns; the others take their default
}

var (
	usersSchema = schema{
		name:    academy.TableUsers,
		columns: []string{"id", "name", "email", "phone", "role", "avatar"},
		insert:  []string{"name", "email", "phone", "role", "avatar"},
	}
	studentsSchema = schema{
		name:    academy.TableStudents,
		columns: []string{"id", "student_id", "enrolled_courses", "pending_fees", "total_fees", "group_id"},
		insert:  []string{"id", "student_id", "enrolled_courses", "pending_fees", "total_fees", "group_id"},
	}
	staffSchema = schema{
		name:    academy.TableStaff,
		columns: []string{"id", "staff_id", "assigned_courses", "department"},
		insert:  []string{"id", "staff_id", "assigned_courses", "department"},
	}
	coursesSchema = schema{
		name: academy.TableCourses,
		columns: []string{"id", "name", "description", "tutor_id", "tutor_name", "department", "admission_fee",
			"monthly_fee", "fees", "duration", "schedule", "start_date", "capacity", "enrolled"},
		dates: map[string]bool{"start_date": true},
		insert: []string{"name", "description", "tutor_id", "tutor_name", "department", "admission_fee",
			"monthly_fee", "fees", "duration", "schedule", "start_date", "capacity", "enrolled"},
	}
	attendanceSchema = schema{
		name:    academy.TableAttendance,
		columns: []string{"id", "student_id", "course_id", "date", "status"},
		dates:   map[string]bool{"date": true},
		insert:  []string{"student_id", "course_id", "date", "status"},
	}
	groupsSchema = schema{
		name:    academy.TableGroups,
		columns: []string{"id", "name", "program_name", "batch_time", "fees", "students", "created_by", "created_at"},
		dates:   map[string]bool{"created_at": true},
		insert:  []string{"name", "program_name", "batch_time", "fees", "students", "created_by", "created_at"},
	}
	paymentsSchema = schema{
		name:    academy.TableFeePayments,
		columns: []string{"id", "student_id", "amount", "date", "method", "status", "transaction_id"},
		dates:   map[string]bool{"date": true},
		insert:  []string{"student_id", "amount", "date", "method", "status", "transaction_id"},
	}
)

// selectList returns the select expressions of the columns, qualified by table.
// A non-empty alias prefixes the result names, e.g. "users.id" for nested rows.
func (s schema) selectList(alias string) string {
	exprs := make([]string, 0, len(s.columns))
	for _, col := range s.columns {
		// CAST rather than `::`, which named queries would take for a parameter
		expr := s.name + "." + col
		if s.dates[col] {
			expr = "CAST(" + expr + " AS text)"
		}
		name := col
		if alias != "" {
			name = alias + "." + col
		}
		exprs = append(exprs, expr+` AS "`+name+`"`)
	}
	return strings.Join(exprs, ", ")
}

// returning lists the columns for a RETURNING clause.
func (s schema) returning() string {
	return s.selectList("")
}

// insertQuery is a named INSERT of the insert columns.
func (s schema) insertQuery() string {
	named := make([]string, len(s.insert))
	for i, col := range s.insert {
		named[i] = ":" + col
	}
	return "INSERT INTO " + s.name + " (" + strings.Join(s.insert, ", ") + ") VALUES (" +
		strings.Join(named, ", ") + ") RETURNING " + s.returning()
}

// where builds the WHERE clause of conds, numbering placeholders from 1.
func (s schema) where(conds []tables.Condition) (string, []interface{}) {
	if len(conds) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(conds))
	args := make([]interface{}, 0, len(conds))
	for i, c := range conds {
		col := c.Column
		if !strings.Contains(col, ".") {
			col = s.name + "." + col
		}
		clauses = append(clauses, col+" = $"+strconv.Itoa(i+1))
		args = append(args, c.Value)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// updateQuery builds `UPDATE ... SET ... WHERE id = $n [AND extra] RETURNING ...`.
func (s schema) updateQuery(set tables.Set, id string, extra ...string) (string, []interface{}) {
	assignments := make([]string, 0, len(set))
	args := make([]interface{}, 0, len(set)+1)
	for i, a := range set {
		assignments = append(assignments, a.Column+" = $"+strconv.Itoa(i+1))
		args = append(args, a.Value)
	}
	args = append(args, id)
	where := append([]string{"id = $" + strconv.Itoa(len(args))}, extra...)
	q := "UPDATE " + s.name + " SET " + strings.Join(assignments, ", ") +
		" WHERE " + strings.Join(where, " AND ") + " RETURNING " + s.returning()
	return q, args
}
