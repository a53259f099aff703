package dto

// ── 课程备注模块 DTO ──

// CreateCommentRequest 创建备注请求
type CreateCommentRequest struct {
	Comment     string `json:"comment"      binding:"required,min=1"`
	CommentType string `json:"comment_type" binding:"omitempty,oneof=note question tip"`
	IsPrivate   *bool  `json:"is_private"`
}

// UpdateCommentRequest 更新备注请求（仅更新出现的字段）
type UpdateCommentRequest struct {
	Comment     *string `json:"comment"      binding:"omitempty,min=1"`
	CommentType *string `json:"comment_type" binding:"omitempty,oneof=note question tip"`
	IsPrivate   *bool   `json:"is_private"`
}

// CommentResponse 备注信息响应
type CommentResponse struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	UserID      string `json:"user_id"`
	Comment     string `json:"comment"`
	CommentType string `json:"comment_type"`
	IsPrivate   bool   `json:"is_private"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
