package model

// Course 课程目录条目 — 对应 courses
// 全局目录实体，不归属任何用户；下线走软删除 + is_active 标记
type Course struct {
	CourseID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name            string `gorm:"type:varchar(200);not null"                     json:"name"`
	Code            string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Instructor      string `gorm:"type:varchar(100)"                              json:"instructor,omitempty"`
	Description     string `gorm:"type:text"                                      json:"description,omitempty"`
	Credits         *int   `gorm:"type:smallint"                                  json:"credits,omitempty"`
	CourseType      string `gorm:"type:varchar(50);not null;default:'lecture'"    json:"course_type"`
	SemesterOffered string `gorm:"type:varchar(10)"                               json:"semester_offered,omitempty"` // WS | SS | Both
	DegreeProgram   string `gorm:"type:varchar(100)"                              json:"degree_program,omitempty"`
	SemesterLevel   *int   `gorm:"type:smallint"                                  json:"semester_level,omitempty"`
	MoodleURL       string `gorm:"type:varchar(500)"                              json:"moodle_url,omitempty"`
	SyllabusURL     string `gorm:"type:varchar(500)"                              json:"syllabus_url,omitempty"`
	ExternalURL     string `gorm:"type:varchar(500)"                              json:"external_url,omitempty"`
	IsActive        bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Sessions []CourseSession `gorm:"foreignKey:CourseID;references:CourseID" json:"sessions,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
