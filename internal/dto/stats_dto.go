package dto

// DashboardStats holds role-scoped counters. Only the fields relevant to the
// requesting role are populated.
type DashboardStats struct {
	EnrolledCourses  *int64 `json:"enrolledCourses,omitempty"`
	AvailableCourses *int64 `json:"availableCourses,omitempty"`
	MyCourses        *int64 `json:"myCourses,omitempty"`
	TotalStudents    *int64 `json:"totalStudents,omitempty"`
	TotalUsers       *int64 `json:"totalUsers,omitempty"`
	TotalCourses     *int64 `json:"totalCourses,omitempty"`
	TotalEnrollments *int64 `json:"totalEnrollments,omitempty"`
}
