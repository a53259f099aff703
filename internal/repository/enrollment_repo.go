package repository

import (
	"context"

	"gorm.io/gorm"

	"unitable/backend/internal/model"
)

// EnrollmentRepository 选课记录数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	Update(ctx context.Context, e *model.Enrollment) error
	// GetOwned 按 (id, userID) 查询选课记录（经课表归属校验）；
	// 非本人记录与不存在一样返回 ErrRecordNotFound
	GetOwned(ctx context.Context, id, userID string) (*model.Enrollment, error)
	// GetByTimetableAndCourse 查询某课表对某课程的选课记录（不限状态）
	GetByTimetableAndCourse(ctx context.Context, timetableID, courseID string) (*model.Enrollment, error)
	// ListActiveByTimetable 查询课表内全部生效选课记录（含课程）
	ListActiveByTimetable(ctx context.Context, timetableID string) ([]model.Enrollment, error)
	// ListActiveByUser 查询用户全部生效选课记录（跨课表，含课程）
	ListActiveByUser(ctx context.Context, userID string) ([]model.Enrollment, error)
	CountActiveByCourse(ctx context.Context, courseID string) (int64, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *enrollmentRepo) Update(ctx context.Context, e *model.Enrollment) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *enrollmentRepo) GetOwned(ctx context.Context, id, userID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Joins("JOIN timetables ON timetables.timetable_id = enrollments.timetable_id").
		Where("enrollments.enrollment_id = ? AND timetables.user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) GetByTimetableAndCourse(ctx context.Context, timetableID, courseID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Where("timetable_id = ? AND course_id = ?", timetableID, courseID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) ListActiveByTimetable(ctx context.Context, timetableID string) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("timetable_id = ? AND status = ?", timetableID, model.EnrollmentStatusActive).
		Order("enrolled_at ASC").
		Find(&es).Error
	return es, err
}

func (r *enrollmentRepo) ListActiveByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Joins("JOIN timetables ON timetables.timetable_id = enrollments.timetable_id").
		Where("timetables.user_id = ? AND enrollments.status = ?", userID, model.EnrollmentStatusActive).
		Order("enrollments.enrolled_at ASC").
		Find(&es).Error
	return es, err
}

func (r *enrollmentRepo) CountActiveByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentStatusActive).
		Count(&count).Error
	return count, err
}
