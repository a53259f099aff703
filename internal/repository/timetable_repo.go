package repository

import (
	"context"

	"gorm.io/gorm"

	"unitable/backend/internal/model"
)

// TimetableRepository 课表数据访问接口
type TimetableRepository interface {
	Create(ctx context.Context, tt *model.Timetable) error
	// GetOwned 按 (id, userID) 查询课表；非本人课表与不存在一样返回 ErrRecordNotFound
	GetOwned(ctx context.Context, id, userID string) (*model.Timetable, error)
	ListByUser(ctx context.Context, userID string) ([]model.Timetable, error)
	Delete(ctx context.Context, id string) error
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, tt *model.Timetable) error {
	return r.db.WithContext(ctx).Create(tt).Error
}

func (r *timetableRepo) GetOwned(ctx context.Context, id, userID string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Where("timetable_id = ? AND user_id = ?", id, userID).
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) ListByUser(ctx context.Context, userID string) ([]model.Timetable, error) {
	var tts []model.Timetable
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&tts).Error
	return tts, err
}

func (r *timetableRepo) Delete(ctx context.Context, id string) error {
	// 硬删除：enrollments 由外键级联清理
	return r.db.WithContext(ctx).
		Where("timetable_id = ?", id).
		Delete(&model.Timetable{}).Error
}
