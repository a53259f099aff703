package repository

import (
	"context"

	"gorm.io/gorm"

	"unitable/backend/internal/model"
)

// CourseSessionRepository 课程场次数据访问接口
type CourseSessionRepository interface {
	Create(ctx context.Context, session *model.CourseSession) error
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseSession, error)
	// ListByIDs 按 ID 集合查询场次（含所属课程），冲突检测使用
	ListByIDs(ctx context.Context, ids []string) ([]model.CourseSession, error)
}

type courseSessionRepo struct {
	db *gorm.DB
}

// NewCourseSessionRepo 创建 CourseSessionRepository 实例
func NewCourseSessionRepo(db *gorm.DB) CourseSessionRepository {
	return &courseSessionRepo{db: db}
}

func (r *courseSessionRepo) Create(ctx context.Context, session *model.CourseSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *courseSessionRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseSession, error) {
	var sessions []model.CourseSession
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("day_of_week ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *courseSessionRepo) ListByIDs(ctx context.Context, ids []string) ([]model.CourseSession, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sessions []model.CourseSession
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("session_id IN ?", []string(ids)).
		Order("day_of_week ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, err
}
