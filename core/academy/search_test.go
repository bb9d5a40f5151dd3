package academy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sreshtta/academy/core"
)

func searchStudents() []Student {
	return []Student{
		{User: User{ID: "1", Name: "Arjun Sharma", Email: "arjun@example.com"}, StudentID: "ST001", EnrolledCourses: []string{"1", "2"}, PendingFees: 5000, TotalFees: 20000},
		{User: User{ID: "5", Name: "Sneha Gupta", Email: "sneha@example.com"}, StudentID: "ST002", EnrolledCourses: []string{"1", "3"}, TotalFees: 16000},
		{User: User{ID: "6", Name: "Rahul Verma", Email: "rahul@example.com"}, StudentID: "ST003", EnrolledCourses: []string{"2", "4"}, PendingFees: 3000, TotalFees: 15000},
	}
}

func ids(students []Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.ID)
	}
	return out
}

func TestFilterStudents(t *testing.T) {
	tests := []struct {
		name  string
		query StudentQuery
		want  []string
	}{
		{name: "everything", query: StudentQuery{}, want: []string{"1", "5", "6"}},
		{name: "by name", query: StudentQuery{Search: "  SNEHA "}, want: []string{"5"}},
		{name: "by email", query: StudentQuery{Search: "rahul@"}, want: []string{"6"}},
		{name: "by code", query: StudentQuery{Search: "st00"}, want: []string{"1", "5", "6"}},
		{name: "pending", query: StudentQuery{FeeStatus: "Pending"}, want: []string{"1", "6"}},
		{name: "paid", query: StudentQuery{FeeStatus: Paid}, want: []string{"5"}},
		{name: "course", query: StudentQuery{CourseID: "2"}, want: []string{"1", "6"}},
		{name: "combined", query: StudentQuery{CourseID: "1", FeeStatus: Pending}, want: []string{"1"}},
		{name: "no match", query: StudentQuery{Search: "zzz"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Clean()
			assert.Equal(t, tt.want, ids(FilterStudents(searchStudents(), tt.query)))
		})
	}
}

func TestSortStudents(t *testing.T) {
	tests := []struct {
		orderings string
		want      []string
	}{
		{orderings: "name", want: []string{"1", "6", "5"}},
		{orderings: "-pendingFees", want: []string{"1", "6", "5"}},
		{orderings: "pendingFees,-name", want: []string{"5", "6", "1"}},
		{orderings: "-totalFees", want: []string{"1", "5", "6"}},
		{orderings: "unknown", want: []string{"1", "5", "6"}},
	}
	for _, tt := range tests {
		t.Run(tt.orderings, func(t *testing.T) {
			students := searchStudents()
			SortStudents(students, core.ParseOrderings(tt.orderings))
			assert.Equal(t, tt.want, ids(students))
		})
	}
}

func TestSuggestStudents(t *testing.T) {
	students := searchStudents()
	assert.Equal(t, []string{"1"}, ids(SuggestStudents(students, "arjn", 3)))
	assert.Equal(t, []string{"6"}, ids(SuggestStudents(students, "Rahul Vrma", 3)))
	assert.Empty(t, SuggestStudents(students, "xq", 3))
	assert.Nil(t, SuggestStudents(students, "", 3))
}
