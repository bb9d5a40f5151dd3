package academy

// Patches carry partial updates: a nil field is left unchanged.
type (
	UserPatch struct {
		Name   *string `json:"name,omitempty"`
		Email  *string `json:"email,omitempty" validate:"omitempty,email"`
		Phone  *string `json:"phone,omitempty"`
		Avatar *string `json:"avatar,omitempty"`
	}

	StudentPatch struct {
		UserPatch
		StudentID       *string   `json:"studentId,omitempty" validate:"omitempty,code"`
		EnrolledCourses *[]string `json:"enrolledCourses,omitempty"`
		PendingFees     *int      `json:"pendingFees,omitempty"`
		TotalFees       *int      `json:"totalFees,omitempty"`
		GroupID         *string   `json:"groupId,omitempty"`
	}

	StaffPatch struct {
		UserPatch
		StaffID         *string   `json:"staffId,omitempty" validate:"omitempty,code"`
		AssignedCourses *[]string `json:"assignedCourses,omitempty"`
		Department      *string   `json:"department,omitempty"`
	}

	// CoursePatch cannot touch Enrolled.
	CoursePatch struct {
		Name         *string   `json:"name,omitempty"`
		Description  *string   `json:"description,omitempty"`
		TutorID      *string   `json:"tutorId,omitempty"`
		TutorName    *string   `json:"tutorName,omitempty"`
		Department   *string   `json:"department,omitempty"`
		AdmissionFee *int      `json:"admissionFee,omitempty"`
		MonthlyFee   *int      `json:"monthlyFee,omitempty"`
		Fees         *int      `json:"fees,omitempty"`
		Duration     *string   `json:"duration,omitempty"`
		Schedule     *Schedule `json:"schedule,omitempty"`
		StartDate    *string   `json:"startDate,omitempty"`
		Capacity     *int      `json:"capacity,omitempty"`
	}

	// GroupPatch cannot touch CreatedBy & CreatedAt.
	GroupPatch struct {
		Name        *string   `json:"name,omitempty"`
		ProgramName *string   `json:"programName,omitempty"`
		BatchTime   *string   `json:"batchTime,omitempty"`
		Fees        *int      `json:"fees,omitempty"`
		Students    *[]string `json:"students,omitempty"`
	}

	FeePaymentPatch struct {
		Status        *PaymentStatus `json:"status,omitempty"`
		TransactionID *string        `json:"transactionId,omitempty"`
	}
)

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setStrings(dst *[]string, src *[]string) {
	if src != nil {
		*dst = append([]string{}, (*src)...)
	}
}

func (p UserPatch) Apply(u *User) {
	setString(&u.Name, p.Name)
	setString(&u.Email, p.Email)
	setString(&u.Phone, p.Phone)
	setString(&u.Avatar, p.Avatar)
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Avatar == nil
}

func (p StudentPatch) Apply(s *Student) {
	p.UserPatch.Apply(&s.User)
	setString(&s.StudentID, p.StudentID)
	setStrings(&s.EnrolledCourses, p.EnrolledCourses)
	setInt(&s.PendingFees, p.PendingFees)
	setInt(&s.TotalFees, p.TotalFees)
	setString(&s.GroupID, p.GroupID)
}

func (p StaffPatch) Apply(s *Staff) {
	p.UserPatch.Apply(&s.User)
	setString(&s.StaffID, p.StaffID)
	setStrings(&s.AssignedCourses, p.AssignedCourses)
	setString(&s.Department, p.Department)
}

func (p CoursePatch) Apply(c *Course) {
	setString(&c.Name, p.Name)
	setString(&c.Description, p.Description)
	setString(&c.TutorID, p.TutorID)
	setString(&c.TutorName, p.TutorName)
	setString(&c.Department, p.Department)
	setInt(&c.AdmissionFee, p.AdmissionFee)
	setInt(&c.MonthlyFee, p.MonthlyFee)
	setInt(&c.Fees, p.Fees)
	setString(&c.Duration, p.Duration)
	if p.Schedule != nil {
		c.Schedule = p.Schedule.clone()
	}
	setString(&c.StartDate, p.StartDate)
	setInt(&c.Capacity, p.Capacity)
}

func (p GroupPatch) Apply(g *Group) {
	setString(&g.Name, p.Name)
	setString(&g.ProgramName, p.ProgramName)
	setString(&g.BatchTime, p.BatchTime)
	setInt(&g.Fees, p.Fees)
	setStrings(&g.Students, p.Students)
}

func (p FeePaymentPatch) Apply(fp *FeePayment) {
	if p.Status != nil {
		fp.Status = *p.Status
	}
	setString(&fp.TransactionID, p.TransactionID)
}

// StudentPatchOf returns a patch replacing every mutable field of s.
func StudentPatchOf(s Student) StudentPatch {
	courses := append([]string{}, s.EnrolledCourses...)
	return StudentPatch{
		UserPatch:       UserPatch{Name: &s.Name, Email: &s.Email, Phone: &s.Phone, Avatar: &s.Avatar},
		StudentID:       &s.StudentID,
		EnrolledCourses: &courses,
		PendingFees:     &s.PendingFees,
		TotalFees:       &s.TotalFees,
		GroupID:         &s.GroupID,
	}
}

// String & Int are helpers to build patches.
func String(s string) *string { return &s }
func Int(i int) *int          { return &i }
func Strings(s ...string) *[]string {
	l := append([]string{}, s...)
	return &l
}
