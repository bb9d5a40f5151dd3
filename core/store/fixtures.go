package store

import (
	"github.com/sreshtta/academy/core/academy"
)

// DemoAccounts are the login accounts of the demo roles.
// The student & staff accounts share the ids of Arjun Sharma & Priya Patel.
var DemoAccounts = []academy.User{
	{ID: "1", Name: "Arjun Sharma", Email: "student@sreshtta.com", Phone: "+91 9876543210", Role: academy.RoleStudent},
	{ID: "2", Name: "Priya Patel", Email: "staff@sreshtta.com", Phone: "+91 9876543211", Role: academy.RoleStaff},
	{ID: "3", Name: "Rajesh Kumar", Email: "admin@sreshtta.com", Phone: "+91 9876543212", Role: academy.RoleAdmin},
}

func attendance(studentID string, marks ...string) []academy.AttendanceRecord {
	// marks come in (date, course, status) triples
	records := make([]academy.AttendanceRecord, 0, len(marks)/3)
	for i := 0; i+2 < len(marks); i += 3 {
		records = append(records, academy.AttendanceRecord{
			StudentID: studentID,
			Date:      marks[i],
			CourseID:  marks[i+1],
			Status:    academy.AttendanceStatus(marks[i+2]),
		})
	}
	return records
}

// Fixtures returns the demo collections the store starts with until the backend answers.
func Fixtures() Snapshot {
	student := func(id, name, email, phone, code string, courses []string, pending, total int, group string) academy.Student {
		return academy.Student{
			User:            academy.User{ID: id, Name: name, Email: email, Phone: phone, Role: academy.RoleStudent},
			StudentID:       code,
			EnrolledCourses: courses,
			PendingFees:     pending,
			TotalFees:       total,
			GroupID:         group,
		}
	}

	students := []academy.Student{
		student("1", "Arjun Sharma", "arjun@example.com", "+91 9876543210", "ST001", []string{"1", "2"}, 5000, 20000, "1"),
		student("5", "Sneha Gupta", "sneha@example.com", "+91 9876543213", "ST002", []string{"1", "3"}, 0, 16000, "1"),
		student("6", "Rahul Verma", "rahul@example.com", "+91 9876543214", "ST003", []string{"2", "4"}, 3000, 15000, "2"),
		student("7", "Ananya Singh", "ananya@example.com", "+91 9876543215", "ST004", []string{"3", "4"}, 0, 13000, "2"),
		student("8", "Vikram Joshi", "vikram@example.com", "+91 9876543216", "ST005", []string{"1"}, 2000, 10000, ""),
	}
	students[0].Attendance = attendance("1",
		"2024-01-15", "1", "present",
		"2024-01-16", "2", "present",
		"2024-01-17", "1", "late",
		"2024-01-18", "2", "present",
		"2024-01-19", "1", "absent",
	)
	students[1].Attendance = attendance("5",
		"2024-01-15", "1", "present",
		"2024-01-17", "3", "absent",
		"2024-01-18", "1", "present",
		"2024-01-20", "3", "present",
	)
	students[2].Attendance = attendance("6",
		"2024-01-16", "2", "present",
		"2024-01-18", "2", "present",
		"2024-01-21", "4", "late",
	)
	students[3].Attendance = attendance("7",
		"2024-01-17", "3", "present",
		"2024-01-20", "3", "present",
		"2024-01-21", "4", "present",
	)
	students[4].Attendance = attendance("8",
		"2024-01-15", "1", "present",
		"2024-01-17", "1", "present",
		"2024-01-19", "1", "present",
	)

	return Snapshot{
		Students: students,
		Staff: []academy.Staff{
			{
				User:            academy.User{ID: "2", Name: "Priya Patel", Email: "priya@sreshtta.com", Phone: "+91 9876543211", Role: academy.RoleStaff},
				StaffID:         "SF001",
				AssignedCourses: []string{"1", "2", "4"},
				Department:      "Fine Arts",
			},
			{
				User:            academy.User{ID: "4", Name: "Kavya Reddy", Email: "kavya@sreshtta.com", Phone: "+91 9876543217", Role: academy.RoleStaff},
				StaffID:         "SF002",
				AssignedCourses: []string{"3"},
				Department:      "Contemporary Arts",
			},
		},
		Courses: []academy.Course{
			{
				ID: "1", Name: "Digital Painting Fundamentals",
				Description: "Learn the basics of digital art and painting techniques using industry-standard software",
				TutorID:     "2", TutorName: "Priya Patel", Duration: "8 weeks", Fees: 10000,
				Schedule: academy.TextSchedule("Mon, Wed, Fri - 10:00 AM"), Capacity: 20, Enrolled: 15,
			},
			{
				ID: "2", Name: "Portrait Drawing Mastery",
				Description: "Master the art of portrait drawing with pencil, charcoal, and advanced techniques",
				TutorID:     "2", TutorName: "Priya Patel", Duration: "6 weeks", Fees: 8000,
				Schedule: academy.TextSchedule("Tue, Thu - 2:00 PM"), Capacity: 15, Enrolled: 12,
			},
			{
				ID: "3", Name: "Abstract Art Workshop",
				Description: "Explore creativity through abstract art techniques and experimental methods",
				TutorID:     "4", TutorName: "Kavya Reddy", Duration: "4 weeks", Fees: 6000,
				Schedule: academy.TextSchedule("Sat - 11:00 AM"), Capacity: 25, Enrolled: 20,
			},
			{
				ID: "4", Name: "Watercolor Landscapes",
				Description: "Create beautiful landscape paintings using watercolor techniques",
				TutorID:     "2", TutorName: "Priya Patel", Duration: "5 weeks", Fees: 7000,
				Schedule: academy.TextSchedule("Sun - 9:00 AM"), Capacity: 18, Enrolled: 14,
			},
		},
		Groups: []academy.Group{
			{
				ID: "1", Name: "Morning Beginners", ProgramName: "Foundation Art Program",
				BatchTime: "9:00 AM - 12:00 PM", Fees: 16000, Students: []string{"1", "5"},
				CreatedBy: "2", CreatedAt: "2024-01-01",
			},
			{
				ID: "2", Name: "Advanced Evening", ProgramName: "Professional Art Development",
				BatchTime: "6:00 PM - 9:00 PM", Fees: 24000, Students: []string{"6", "7"},
				CreatedBy: "2", CreatedAt: "2024-01-15",
			},
		},
		Payments: []academy.FeePayment{},
		Admins:   []academy.User{DemoAccounts[2]},
	}
}
