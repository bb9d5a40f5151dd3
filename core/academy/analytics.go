package academy

// Point is one value of a chart series.
type Point struct {
	Period string `json:"period"`
	Value  int    `json:"value"`
}

// Demo series shown on the dashboards; they are not derived from any record.
var (
	AttendanceByPeriod = []Point{
		{"Mon", 85}, {"Tue", 90}, {"Wed", 88}, {"Thu", 92}, {"Fri", 87}, {"Sat", 95}, {"Sun", 80},
	}
	RevenueByPeriod = []Point{
		{"Jan", 300000}, {"Feb", 360000}, {"Mar", 330000}, {"Apr", 380000}, {"May", 350000}, {"Jun", 400000},
	}
)

// Analytics is the dashboard aggregate of the whole academy.
type Analytics struct {
	TotalStudents     int     `json:"totalStudents"`
	TotalRevenue      int     `json:"totalRevenue"`
	AverageAttendance float64 `json:"averageAttendance"`
	// CourseEnrollments holds the stored Course.Enrolled counters.
	CourseEnrollments map[string]int `json:"courseEnrollments"`
	// DerivedEnrollments counts the students actually listing each course.
	DerivedEnrollments map[string]int `json:"derivedEnrollments"`
	AttendanceByPeriod []Point        `json:"attendanceByPeriod"`
	RevenueByPeriod    []Point        `json:"revenueByPeriod"`
}

func ComputeAnalytics(students []Student, courses []Course) Analytics {
	a := Analytics{
		TotalStudents:      len(students),
		AverageAttendance:  MeanAttendancePercent(students),
		CourseEnrollments:  make(map[string]int, len(courses)),
		DerivedEnrollments: make(map[string]int, len(courses)),
		AttendanceByPeriod: append([]Point(nil), AttendanceByPeriod...),
		RevenueByPeriod:    append([]Point(nil), RevenueByPeriod...),
	}
	for _, s := range students {
		a.TotalRevenue += s.TotalFees - s.PendingFees
	}
	for _, c := range courses {
		a.CourseEnrollments[c.ID] = c.Enrolled
		a.DerivedEnrollments[c.ID] = DerivedEnrollment(students, c.ID)
	}
	return a
}

// AdminReport is the admin analytics screen: academy aggregate plus per course & per staff breakdowns.
type AdminReport struct {
	Analytics
	Fees         FeeSummary         `json:"fees"`
	TotalStaff   int                `json:"totalStaff"`
	TotalCourses int                `json:"totalCourses"`
	NearCapacity int                `json:"nearCapacity"`
	Courses      []CourseStats      `json:"courses"`
	Staff        []StaffPerformance `json:"staff"`
}

func NewAdminReport(students []Student, staff []Staff, courses []Course) AdminReport {
	r := AdminReport{
		Analytics:    ComputeAnalytics(students, courses),
		Fees:         SummarizeFees(students),
		TotalStaff:   len(staff),
		TotalCourses: len(courses),
		Courses:      make([]CourseStats, 0, len(courses)),
		Staff:        make([]StaffPerformance, 0, len(staff)),
	}
	for _, c := range courses {
		if NearCapacity(c) {
			r.NearCapacity++
		}
		r.Courses = append(r.Courses, NewCourseStats(c, students))
	}
	for _, m := range staff {
		r.Staff = append(r.Staff, NewStaffPerformance(m, students, courses))
	}
	return r
}

// StaffReport is what one tutor sees: the courses they teach, their students & groups.
type StaffReport struct {
	StaffID           string        `json:"staffId"`
	Courses           []CourseStats `json:"courses"`
	Students          []Student     `json:"students"`
	Groups            []Group       `json:"groups"`
	TotalStudents     int           `json:"totalStudents"`
	AverageAttendance float64       `json:"averageAttendance"`
}

func NewStaffReport(staffID string, students []Student, courses []Course, groups []Group) StaffReport {
	r := StaffReport{
		StaffID:  staffID,
		Courses:  []CourseStats{},
		Students: []Student{},
		Groups:   []Group{},
	}
	var taught []string
	for _, c := range courses {
		if c.TutorID == staffID {
			taught = append(taught, c.ID)
		}
	}
	for _, s := range students {
		for _, id := range taught {
			if s.IsEnrolled(id) {
				r.Students = append(r.Students, s)
				break
			}
		}
	}
	for _, c := range courses {
		if c.TutorID == staffID {
			r.Courses = append(r.Courses, NewCourseStats(c, r.Students))
		}
	}
	for _, g := range groups {
		if g.CreatedBy == staffID {
			r.Groups = append(r.Groups, g)
		}
	}
	r.TotalStudents = len(r.Students)
	r.AverageAttendance = MeanAttendancePercent(r.Students)
	return r
}
