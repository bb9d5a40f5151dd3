package academy

const (
	// AssumedMonths is the course length every revenue estimate assumes.
	AssumedMonths = 6

	// NearCapacityPercent is the enrollment share from which a course is near capacity.
	NearCapacityPercent = 80
)

// AttendanceRate is the share of present records, 0 for no records.
func AttendanceRate(records []AttendanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var present int
	for _, r := range records {
		if r.Status == Present {
			present++
		}
	}
	return float64(present) / float64(len(records))
}

// AttendancePercent is AttendanceRate scaled to 0-100.
func AttendancePercent(records []AttendanceRecord) float64 {
	return AttendanceRate(records) * 100
}

// CourseAttendance returns the records of courseID.
func CourseAttendance(records []AttendanceRecord, courseID string) []AttendanceRecord {
	var out []AttendanceRecord
	for _, r := range records {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out
}

// MeanAttendancePercent averages the per-student attendance percentage, 0 for no students.
func MeanAttendancePercent(students []Student) float64 {
	if len(students) == 0 {
		return 0
	}
	var sum float64
	for _, s := range students {
		sum += AttendancePercent(s.Attendance)
	}
	return sum / float64(len(students))
}

// CourseFee is the expected fee of one enrollment: admission + monthly fee over AssumedMonths.
func CourseFee(c Course) int {
	return c.AdmissionFee + c.MonthlyFee*AssumedMonths
}

// CourseRevenue is the expected revenue of a course from its recorded enrollment count.
func CourseRevenue(c Course) int {
	return c.Enrolled * CourseFee(c)
}

// EnrollmentPercent is Enrolled over Capacity, 0 for courses without capacity.
func EnrollmentPercent(c Course) float64 {
	if c.Capacity <= 0 {
		return 0
	}
	return float64(c.Enrolled) / float64(c.Capacity) * 100
}

func NearCapacity(c Course) bool {
	return c.Capacity > 0 && c.Enrolled*100 >= c.Capacity*NearCapacityPercent
}

// EnrolledStudents returns the students listing courseID.
func EnrolledStudents(students []Student, courseID string) []Student {
	var out []Student
	for _, s := range students {
		if s.IsEnrolled(courseID) {
			out = append(out, s)
		}
	}
	return out
}

// DerivedEnrollment counts the students listing courseID, unlike Course.Enrolled which is stored.
func DerivedEnrollment(students []Student, courseID string) int {
	return len(EnrolledStudents(students, courseID))
}

// CourseStats summarizes one course.
type CourseStats struct {
	CourseID          string  `json:"courseId"`
	Name              string  `json:"name"`
	Enrolled          int     `json:"enrolled"`
	DerivedEnrolled   int     `json:"derivedEnrolled"`
	Capacity          int     `json:"capacity"`
	EnrollmentPercent float64 `json:"enrollmentPercent"`
	NearCapacity      bool    `json:"nearCapacity"`
	AttendancePercent float64 `json:"attendancePercent"`
	Revenue           int     `json:"revenue"`
	Schedule          string  `json:"schedule"`
}

// NewCourseStats computes the stats of c. Attendance is pooled over every record of the course.
func NewCourseStats(c Course, students []Student) CourseStats {
	var records []AttendanceRecord
	enrolled := EnrolledStudents(students, c.ID)
	for _, s := range enrolled {
		records = append(records, CourseAttendance(s.Attendance, c.ID)...)
	}
	return CourseStats{
		CourseID:          c.ID,
		Name:              c.Name,
		Enrolled:          c.Enrolled,
		DerivedEnrolled:   len(enrolled),
		Capacity:          c.Capacity,
		EnrollmentPercent: EnrollmentPercent(c),
		NearCapacity:      NearCapacity(c),
		AttendancePercent: AttendancePercent(records),
		Revenue:           CourseRevenue(c),
		Schedule:          c.Schedule.String(),
	}
}

// StaffPerformance summarizes one staff member over their assigned courses.
type StaffPerformance struct {
	StaffID           string  `json:"staffId"`
	Name              string  `json:"name"`
	Department        string  `json:"department"`
	Students          int     `json:"students"`
	Courses           int     `json:"courses"`
	AttendancePercent float64 `json:"attendancePercent"`
	Revenue           int     `json:"revenue"`
}

func NewStaffPerformance(member Staff, students []Student, courses []Course) StaffPerformance {
	var assigned []Student
	for _, s := range students {
		for _, id := range member.AssignedCourses {
			if s.IsEnrolled(id) {
				assigned = append(assigned, s)
				break
			}
		}
	}

	var revenue int
	for _, id := range member.AssignedCourses {
		if c, ok := FindCourse(courses, id); ok {
			revenue += CourseRevenue(c)
		}
	}

	return StaffPerformance{
		StaffID:           member.ID,
		Name:              member.Name,
		Department:        member.Department,
		Students:          len(assigned),
		Courses:           len(member.AssignedCourses),
		AttendancePercent: MeanAttendancePercent(assigned),
		Revenue:           revenue,
	}
}

// GroupAttendancePercent averages the attendance of the group's known students.
// Dangling student ids are ignored.
func GroupAttendancePercent(g Group, students []Student) float64 {
	var members []Student
	for _, id := range g.Students {
		if s, ok := FindStudent(students, id); ok {
			members = append(members, s)
		}
	}
	return MeanAttendancePercent(members)
}

func FindStudent(students []Student, id string) (Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func FindStaff(staff []Staff, id string) (Staff, bool) {
	for _, s := range staff {
		if s.ID == id {
			return s, true
		}
	}
	return Staff{}, false
}

func FindCourse(courses []Course, id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

func FindGroup(groups []Group, id string) (Group, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}
