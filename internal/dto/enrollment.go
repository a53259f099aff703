package dto

// ── 选课模块 DTO ──

// EnrollRequest 选课请求
type EnrollRequest struct {
	TimetableID      string   `json:"timetable_id"      binding:"required,uuid"`
	CourseID         string   `json:"course_id"         binding:"required,uuid"`
	SelectedSessions []string `json:"selected_sessions" binding:"required,min=1,dive,uuid"`
	CustomColor      *string  `json:"custom_color"      binding:"omitempty,max=20"`
	ReminderEnabled  *bool    `json:"reminder_enabled"`
	ReminderMinutes  *int     `json:"reminder_minutes"  binding:"omitempty,min=0,max=1440"`
}

// UpdateEnrollmentRequest 更新选课请求（仅更新出现的字段）
// SelectedSessions 为 nil 表示不修改场次选择；空数组视为非法
type UpdateEnrollmentRequest struct {
	SelectedSessions []string `json:"selected_sessions" binding:"omitempty,dive,uuid"`
	CustomColor      *string  `json:"custom_color"      binding:"omitempty,max=20"`
	ReminderEnabled  *bool    `json:"reminder_enabled"`
	ReminderMinutes  *int     `json:"reminder_minutes"  binding:"omitempty,min=0,max=1440"`
}

// EnrollmentResponse 选课记录响应
type EnrollmentResponse struct {
	ID               string       `json:"id"`
	TimetableID      string       `json:"timetable_id"`
	CourseID         string       `json:"course_id"`
	Course           *CourseBrief `json:"course,omitempty"`
	SelectedSessions []string     `json:"selected_sessions"`
	CustomColor      *string      `json:"custom_color,omitempty"`
	ReminderEnabled  bool         `json:"reminder_enabled"`
	ReminderMinutes  int          `json:"reminder_minutes"`
	Status           string       `json:"status"`
	EnrolledAt       string       `json:"enrolled_at"`
}

// EnrollResult 选课结果
// Reactivated 为 true 表示复用了先前退课的记录（返回 200 而非 201）
type EnrollResult struct {
	Enrollment  *EnrollmentResponse `json:"enrollment"`
	Reactivated bool                `json:"reactivated"`
}
