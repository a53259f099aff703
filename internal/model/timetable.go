package model

// Timetable 课表 — 对应 timetables
// 每个课表归属唯一用户；选课记录通过课表间接归属用户
type Timetable struct {
	TimetableID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	UserID      string `gorm:"type:uuid;not null"                             json:"user_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Semester    string `gorm:"type:varchar(20)"                               json:"semester,omitempty"` // 例: WS25/26
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }
