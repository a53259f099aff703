package repository

import (
	"context"

	"gorm.io/gorm"

	"unitable/backend/internal/model"
)

// CommentRepository 课程备注数据访问接口
type CommentRepository interface {
	Create(ctx context.Context, c *model.CourseComment) error
	// ListVisible 查询课程下调用方可见的备注：本人全部 + 他人公开
	ListVisible(ctx context.Context, courseID, userID string) ([]model.CourseComment, error)
	// GetOwned 按 (id, userID) 查询备注；非本人备注与不存在一样返回 ErrRecordNotFound
	GetOwned(ctx context.Context, id, userID string) (*model.CourseComment, error)
	Update(ctx context.Context, c *model.CourseComment) error
	Delete(ctx context.Context, id string) error
}

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepo 创建 CommentRepository 实例
func NewCommentRepo(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, c *model.CourseComment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepo) ListVisible(ctx context.Context, courseID, userID string) ([]model.CourseComment, error) {
	var comments []model.CourseComment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND (user_id = ? OR is_private = FALSE)", courseID, userID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepo) GetOwned(ctx context.Context, id, userID string) (*model.CourseComment, error) {
	var c model.CourseComment
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) Update(ctx context.Context, c *model.CourseComment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ?", id).
		Delete(&model.CourseComment{}).Error
}
