package store

import (
	"github.com/sreshtta/academy/core/academy"
)

// Snapshot is a copy of the collections held by a Store.
type Snapshot struct {
	Students []academy.Student    `json:"students"`
	Staff    []academy.Staff      `json:"staff"`
	Courses  []academy.Course     `json:"courses"`
	Groups   []academy.Group      `json:"groups"`
	Payments []academy.FeePayment `json:"payments"`
	Admins   []academy.User       `json:"admins"`
}

// Clone returns a deep copy; collections are never nil.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Students: make([]academy.Student, 0, len(s.Students)),
		Staff:    make([]academy.Staff, 0, len(s.Staff)),
		Courses:  make([]academy.Course, 0, len(s.Courses)),
		Groups:   make([]academy.Group, 0, len(s.Groups)),
		Payments: append(make([]academy.FeePayment, 0, len(s.Payments)), s.Payments...),
		Admins:   append(make([]academy.User, 0, len(s.Admins)), s.Admins...),
	}
	for _, st := range s.Students {
		out.Students = append(out.Students, st.Clone())
	}
	for _, m := range s.Staff {
		out.Staff = append(out.Staff, m.Clone())
	}
	for _, c := range s.Courses {
		out.Courses = append(out.Courses, c.Clone())
	}
	for _, g := range s.Groups {
		out.Groups = append(out.Groups, g.Clone())
	}
	return out
}

// Users lists every known user: students, staff & admins.
func (s Snapshot) Users() []academy.User {
	users := make([]academy.User, 0, len(s.Students)+len(s.Staff)+len(s.Admins))
	for _, st := range s.Students {
		users = append(users, st.User)
	}
	for _, m := range s.Staff {
		users = append(users, m.User)
	}
	return append(users, s.Admins...)
}

func studentID(s academy.Student) string    { return s.ID }
func staffID(s academy.Staff) string        { return s.ID }
func courseID(c academy.Course) string      { return c.ID }
func groupID(g academy.Group) string        { return g.ID }
func paymentID(p academy.FeePayment) string { return p.ID }

func indexOf[T any](list []T, id string, idOf func(T) string) int {
	for i := range list {
		if idOf(list[i]) == id {
			return i
		}
	}
	return -1
}

// putByID replaces the element with v's id, or appends v.
func putByID[T any](list []T, v T, idOf func(T) string) []T {
	if i := indexOf(list, idOf(v), idOf); i >= 0 {
		list[i] = v
		return list
	}
	return append(list, v)
}

func removeByID[T any](list []T, id string, idOf func(T) string) []T {
	out := list[:0]
	for _, v := range list {
		if idOf(v) != id {
			out = append(out, v)
		}
	}
	return out
}

// patchByID applies fn to the element with id, if any.
func patchByID[T any](list []T, id string, idOf func(T) string, fn func(*T)) bool {
	if i := indexOf(list, id, idOf); i >= 0 {
		fn(&list[i])
		return true
	}
	return false
}
