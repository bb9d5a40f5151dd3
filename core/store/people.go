package store

import (
	"context"

	"github.com/sreshtta/academy/core/academy"
)

func (s *Store) studentEntity() entity[academy.Student, academy.StudentPatch] {
	return entity[academy.Student, academy.StudentPatch]{
		name:  "student",
		repo:  s.students,
		list:  func(d *Snapshot) *[]academy.Student { return &d.Students },
		idOf:  studentID,
		setID: func(v *academy.Student, id string) { v.ID = id },
		clone: academy.Student.Clone,
		refs: func(v *academy.Student, ids map[string]string) {
			v.EnrolledCourses = resolveIDs(ids, v.EnrolledCourses)
			if v.GroupID != "" {
				v.GroupID = resolveID(ids, v.GroupID)
			}
		},
		onPut: func(d *Snapshot, v *academy.Student) {
			// backends return students without their attendance
			if v.Attendance == nil {
				if old, ok := academy.FindStudent(d.Students, v.ID); ok {
					v.Attendance = old.Attendance
				}
			}
			if v.Attendance == nil {
				v.Attendance = []academy.AttendanceRecord{}
			}
			if v.EnrolledCourses == nil {
				v.EnrolledCourses = []string{}
			}
		},
	}
}

func (s *Store) staffEntity() entity[academy.Staff, academy.StaffPatch] {
	return entity[academy.Staff, academy.StaffPatch]{
		name:  "staff",
		repo:  s.staff,
		list:  func(d *Snapshot) *[]academy.Staff { return &d.Staff },
		idOf:  staffID,
		setID: func(v *academy.Staff, id string) { v.ID = id },
		clone: academy.Staff.Clone,
		refs: func(v *academy.Staff, ids map[string]string) {
			v.AssignedCourses = resolveIDs(ids, v.AssignedCourses)
		},
		onPut: func(d *Snapshot, v *academy.Staff) {
			if v.AssignedCourses == nil {
				v.AssignedCourses = []string{}
			}
		},
	}
}

// AddStudent registers a student. Its id is assigned by the backend (or locally when queued).
// Callers registering on behalf of staff set the fees with academy.AssignGeneratedFees first.
func (s *Store) AddStudent(ctx context.Context, st academy.Student) (academy.Student, Outcome, error) {
	st.ID = ""
	st.Attendance = []academy.AttendanceRecord{}
	if st.EnrolledCourses == nil {
		st.EnrolledCourses = []string{}
	}
	if err := st.Validate(s.validate); err != nil {
		return academy.Student{}, "", err
	}
	if err := s.checkEmailUniqueness(st.Email, ""); err != nil {
		return academy.Student{}, "", err
	}
	created, outcome := create(ctx, s, s.studentEntity(), st, nil)
	return created, outcome, nil
}

func (s *Store) UpdateStudent(ctx context.Context, id string, p academy.StudentPatch) (academy.Student, Outcome, error) {
	cur, err := s.Student(id)
	if err != nil {
		return academy.Student{}, "", err
	}
	p.Apply(&cur)
	if err := cur.Validate(s.validate); err != nil {
		return academy.Student{}, "", err
	}
	if p.Email != nil {
		if err := s.checkEmailUniqueness(cur.Email, cur.ID); err != nil {
			return academy.Student{}, "", err
		}
	}
	updated, outcome := update(ctx, s, s.studentEntity(), cur, p, nil)
	if outcome.IsSynced() {
		if fresh, err := s.Student(updated.ID); err == nil {
			updated = fresh
		}
	}
	return updated, outcome, nil
}

// RemoveStudent deletes a student and their user. Group memberships & payments referencing them are kept.
func (s *Store) RemoveStudent(ctx context.Context, id string) (Outcome, error) {
	cur, err := s.Student(id)
	if err != nil {
		return "", err
	}
	return remove(ctx, s, s.studentEntity(), cur.ID), nil
}

func (s *Store) AddStaff(ctx context.Context, m academy.Staff) (academy.Staff, Outcome, error) {
	m.ID = ""
	if m.AssignedCourses == nil {
		m.AssignedCourses = []string{}
	}
	if err := m.Validate(s.validate); err != nil {
		return academy.Staff{}, "", err
	}
	if err := s.checkEmailUniqueness(m.Email, ""); err != nil {
		return academy.Staff{}, "", err
	}
	created, outcome := create(ctx, s, s.staffEntity(), m, nil)
	return created, outcome, nil
}

// UpdateStaff also renames the local TutorName copies of the courses they teach.
func (s *Store) UpdateStaff(ctx context.Context, id string, p academy.StaffPatch) (academy.Staff, Outcome, error) {
	cur, err := s.StaffMember(id)
	if err != nil {
		return academy.Staff{}, "", err
	}
	p.Apply(&cur)
	if err := cur.Validate(s.validate); err != nil {
		return academy.Staff{}, "", err
	}
	if p.Email != nil {
		if err := s.checkEmailUniqueness(cur.Email, cur.ID); err != nil {
			return academy.Staff{}, "", err
		}
	}

	var rename func(d *Snapshot, id string)
	if p.Name != nil {
		name := *p.Name
		rename = func(d *Snapshot, id string) {
			for i := range d.Courses {
				if d.Courses[i].TutorID == id {
					d.Courses[i].TutorName = name
				}
			}
		}
	}
	updated, outcome := update(ctx, s, s.staffEntity(), cur, p, rename)
	return updated, outcome, nil
}

// RemoveStaff deletes a staff member and their user. Courses keep their tutor id & name.
func (s *Store) RemoveStaff(ctx context.Context, id string) (Outcome, error) {
	cur, err := s.StaffMember(id)
	if err != nil {
		return "", err
	}
	return remove(ctx, s, s.staffEntity(), cur.ID), nil
}
