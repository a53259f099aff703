package model

// CourseSession 课程场次 — 对应 course_sessions
// 一门课程的一次周期性上课时段（星期 + 起止时间），选课时按场次勾选
type CourseSession struct {
	SessionID   string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	CourseID    string   `gorm:"type:uuid;not null"                             json:"course_id"`
	SessionType string   `gorm:"type:varchar(50);not null;default:'lecture'"    json:"session_type"` // lecture | exercise | lab | seminar
	GroupName   string   `gorm:"type:varchar(50)"                               json:"group_name,omitempty"`
	DayOfWeek   int      `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0-6，0=周一
	StartTime   string   `gorm:"type:time;not null"                             json:"start_time"`  // "HH:MM"
	EndTime     string   `gorm:"type:time;not null"                             json:"end_time"`
	Room        string   `gorm:"type:varchar(50)"                               json:"room,omitempty"`
	Weeks       IntArray `gorm:"type:int[]"                                     json:"weeks,omitempty"` // 上课周次，空表示每周
	Color       string   `gorm:"type:varchar(20);not null;default:'#3498db'"    json:"color"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (CourseSession) TableName() string { return "course_sessions" }
