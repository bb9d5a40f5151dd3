package store

import (
	"context"

	"github.com/sreshtta/academy/core/academy"
)

func (s *Store) courseEntity() entity[academy.Course, academy.CoursePatch] {
	return entity[academy.Course, academy.CoursePatch]{
		name:  "course",
		repo:  s.courses,
		list:  func(d *Snapshot) *[]academy.Course { return &d.Courses },
		idOf:  courseID,
		setID: func(v *academy.Course, id string) { v.ID = id },
		clone: academy.Course.Clone,
		refs: func(v *academy.Course, ids map[string]string) {
			if v.TutorID != "" {
				v.TutorID = resolveID(ids, v.TutorID)
			}
		},
	}
}

func (s *Store) groupEntity() entity[academy.Group, academy.GroupPatch] {
	return entity[academy.Group, academy.GroupPatch]{
		name:  "group",
		repo:  s.groups,
		list:  func(d *Snapshot) *[]academy.Group { return &d.Groups },
		idOf:  groupID,
		setID: func(v *academy.Group, id string) { v.ID = id },
		clone: academy.Group.Clone,
		refs: func(v *academy.Group, ids map[string]string) {
			v.Students = resolveIDs(ids, v.Students)
			v.CreatedBy = resolveID(ids, v.CreatedBy)
		},
		onPut: func(d *Snapshot, v *academy.Group) {
			if v.Students == nil {
				v.Students = []string{}
			}
		},
	}
}

// tutorName returns the name of the staff member tutorID, "" if unknown.
func (s *Store) tutorName(tutorID string) string {
	if tutorID == "" {
		return ""
	}
	m, err := s.StaffMember(tutorID)
	if err != nil {
		return ""
	}
	return m.Name
}

// AddCourse creates a course with no enrollment. TutorName is copied from the tutor's staff record.
func (s *Store) AddCourse(ctx context.Context, c academy.Course) (academy.Course, Outcome, error) {
	c.ID = ""
	c.Enrolled = 0
	if name := s.tutorName(c.TutorID); name != "" {
		c.TutorName = name
	}
	if err := c.Validate(s.validate); err != nil {
		return academy.Course{}, "", err
	}
	created, outcome := create(ctx, s, s.courseEntity(), c, nil)
	return created, outcome, nil
}

// UpdateCourse never changes Enrolled. A tutor change without a name refreshes TutorName.
func (s *Store) UpdateCourse(ctx context.Context, id string, p academy.CoursePatch) (academy.Course, Outcome, error) {
	cur, err := s.Course(id)
	if err != nil {
		return academy.Course{}, "", err
	}
	if p.TutorID != nil && p.TutorName == nil {
		name := s.tutorName(*p.TutorID)
		p.TutorName = &name
	}
	p.Apply(&cur)
	if err := cur.Validate(s.validate); err != nil {
		return academy.Course{}, "", err
	}
	updated, outcome := update(ctx, s, s.courseEntity(), cur, p, nil)
	return updated, outcome, nil
}

// RemoveCourse deletes a course. Students & staff keep the course id in their lists.
func (s *Store) RemoveCourse(ctx context.Context, id string) (Outcome, error) {
	cur, err := s.Course(id)
	if err != nil {
		return "", err
	}
	return remove(ctx, s, s.courseEntity(), cur.ID), nil
}

// CreateGroup creates a group of students; CreatedAt defaults to today.
func (s *Store) CreateGroup(ctx context.Context, g academy.Group) (academy.Group, Outcome, error) {
	g.ID = ""
	if g.CreatedAt == "" {
		g.CreatedAt = s.today()
	}
	if g.Students == nil {
		g.Students = []string{}
	}
	if err := g.Validate(s.validate); err != nil {
		return academy.Group{}, "", err
	}
	created, outcome := create(ctx, s, s.groupEntity(), g, nil)
	return created, outcome, nil
}

func (s *Store) UpdateGroup(ctx context.Context, id string, p academy.GroupPatch) (academy.Group, Outcome, error) {
	cur, err := s.Group(id)
	if err != nil {
		return academy.Group{}, "", err
	}
	p.Apply(&cur)
	if err := cur.Validate(s.validate); err != nil {
		return academy.Group{}, "", err
	}
	updated, outcome := update(ctx, s, s.groupEntity(), cur, p, nil)
	return updated, outcome, nil
}

func (s *Store) RemoveGroup(ctx context.Context, id string) (Outcome, error) {
	cur, err := s.Group(id)
	if err != nil {
		return "", err
	}
	return remove(ctx, s, s.groupEntity(), cur.ID), nil
}
