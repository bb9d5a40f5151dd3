package tables

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

// filterColumns lists, per table, the filterable columns & the column they map to.
// Student & staff emails live on their users row.
var filterColumns = map[string]map[string]string{
	academy.TableUsers: {
		academy.ColID:    "id",
		academy.ColRole:  "role",
		academy.ColEmail: "email",
	},
	academy.TableStudents: {
		academy.ColID:    "id",
		academy.ColEmail: "users.email",
	},
	academy.TableStaff: {
		academy.ColID:    "id",
		academy.ColEmail: "users.email",
	},
	academy.TableCourses: {
		academy.ColID:      "id",
		academy.ColTutorID: "tutor_id",
	},
	academy.TableAttendance: {
		academy.ColID:        "id",
		academy.ColStudentID: "student_id",
		academy.ColCourseID:  "course_id",
	},
	academy.TableGroups: {
		academy.ColID:        "id",
		academy.ColCreatedBy: "created_by",
	},
	academy.TableFeePayments: {
		academy.ColID:        "id",
		academy.ColStudentID: "student_id",
	},
}

// Condition is one `column = value` of a filter, column being the mapped one.
type Condition struct {
	Column string
	Value  string
}

// Conditions maps filter to the columns of table, sorted by column.
func Conditions(table string, filter academy.Filter) ([]Condition, error) {
	cols := filterColumns[table]
	conds := make([]Condition, 0, len(filter))
	for col, val := range filter {
		mapped, ok := cols[col]
		if !ok {
			return nil, errors.Wrapf(academy.ErrUnknownColumn, "%s.%s", table, col)
		}
		conds = append(conds, Condition{Column: mapped, Value: val})
	}
	sort.Slice(conds, func(i, j int) bool { return conds[i].Column < conds[j].Column })
	return conds, nil
}
