package model

import "time"

// User 用户镜像表 — 对应 users
// 注册/登录由统一身份服务承担，本服务只读，用于外键与备注归属
type User struct {
	UserID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username    string    `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	Email       string    `gorm:"type:varchar(100);not null;uniqueIndex"         json:"email"`
	DisplayName string    `gorm:"type:varchar(100)"                              json:"display_name,omitempty"`
	Role        string    `gorm:"type:varchar(20);not null;default:'student'"    json:"role"` // student | admin
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
