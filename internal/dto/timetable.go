package dto

// ── 课表模块 DTO ──

// CreateTimetableRequest 创建课表请求
type CreateTimetableRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Semester string `json:"semester" binding:"omitempty,max=20"` // 例: WS25/26
}

// TimetableResponse 课表信息响应
type TimetableResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Semester  string `json:"semester,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ScheduleItemResponse 课表明细项：一条选课记录的一个已选场次
type ScheduleItemResponse struct {
	EnrollmentID    string          `json:"enrollment_id"`
	Course          CourseBrief     `json:"course"`
	Session         SessionResponse `json:"session"`
	CustomColor     *string         `json:"custom_color,omitempty"`
	ReminderEnabled bool            `json:"reminder_enabled"`
	ReminderMinutes int             `json:"reminder_minutes"`
}

// ScheduleResponse 课表及全部明细
type ScheduleResponse struct {
	Timetable TimetableResponse      `json:"timetable"`
	Items     []ScheduleItemResponse `json:"items"`
	Count     int                    `json:"count"`
}
