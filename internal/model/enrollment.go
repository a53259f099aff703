package model

import "time"

// 选课记录状态
const (
	EnrollmentStatusActive  = "active"
	EnrollmentStatusDropped = "dropped"
)

// Enrollment 选课记录 — 对应 enrollments
// 一个课表对一门课仅一行记录（唯一索引约束）；
// 退课置 status=dropped，重新选课复用同一行并刷新 enrolled_at
type Enrollment struct {
	EnrollmentID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	TimetableID      string    `gorm:"type:uuid;not null"                             json:"timetable_id"`
	CourseID         string    `gorm:"type:uuid;not null"                             json:"course_id"`
	SelectedSessions UUIDArray `gorm:"type:uuid[];not null"                           json:"selected_sessions"`
	CustomColor      *string   `gorm:"type:varchar(20)"                               json:"custom_color,omitempty"`
	ReminderEnabled  bool      `gorm:"not null;default:true"                          json:"reminder_enabled"`
	ReminderMinutes  int       `gorm:"not null;default:15"                            json:"reminder_minutes"`
	Status           string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	EnrolledAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"enrolled_at"`
	BaseModel

	// 关联
	Timetable *Timetable `gorm:"foreignKey:TimetableID;references:TimetableID" json:"timetable,omitempty"`
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
