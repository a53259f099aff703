package model

// CourseComment 课程备注 — 对应 course_comments
// 用户挂在课程上的自由文本笔记，作者本人可改可删
type CourseComment struct {
	CommentID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"comment_id"`
	CourseID    string `gorm:"type:uuid;not null"                             json:"course_id"`
	UserID      string `gorm:"type:uuid;not null"                             json:"user_id"`
	Comment     string `gorm:"type:text;not null"                             json:"comment"`
	CommentType string `gorm:"type:varchar(20);not null;default:'note'"       json:"comment_type"` // note | question | tip
	IsPrivate   bool   `gorm:"not null;default:true"                          json:"is_private"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	User   *User   `gorm:"foreignKey:UserID;references:UserID"     json:"user,omitempty"`
}

// TableName 指定表名
func (CourseComment) TableName() string { return "course_comments" }
