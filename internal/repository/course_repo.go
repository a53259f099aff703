package repository

import (
	"context"

	"gorm.io/gorm"

	"unitable/backend/internal/model"
)

// CourseFilter 目录列表过滤条件
type CourseFilter struct {
	Semester      string // WS | SS | Both（WS/SS 同时匹配 Both）
	DegreeProgram string
	SemesterLevel *int
	CourseType    string
	Instructor    string
	DayOfWeek     *int // 按场次所在星期过滤
	Search        string
	Page          int
	PageSize      int
}

// CourseSearchFilter 多条件组合搜索条件
type CourseSearchFilter struct {
	Search         string
	DegreePrograms []string
	SemesterLevels []int
	CourseTypes    []string
	Instructors    []string
	DaysOfWeek     []int
	TimeStart      string // "HH:MM"，与 TimeEnd 成对出现
	TimeEnd        string
	Credits        *int
	Limit          int
}

// CourseRepository 课程目录数据访问接口
type CourseRepository interface {
	// CreateWithSessions 在事务中创建课程及其全部场次
	CreateWithSessions(ctx context.Context, course *model.Course, sessions []model.CourseSession) error
	// GetActiveByID 查询上架课程（含场次）
	GetActiveByID(ctx context.Context, id string) (*model.Course, error)
	// GetByID 查询课程（含场次，不限上架状态，管理员使用）
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	List(ctx context.Context, f CourseFilter) ([]model.Course, int64, error)
	Search(ctx context.Context, f CourseSearchFilter) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string, deletedBy string) error
	DistinctTypes(ctx context.Context) ([]string, error)
	DistinctInstructors(ctx context.Context) ([]string, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) CreateWithSessions(ctx context.Context, course *model.Course, sessions []model.CourseSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		for i := range sessions {
			sessions[i].CourseID = course.CourseID
		}
		if len(sessions) > 0 {
			if err := tx.Create(&sessions).Error; err != nil {
				return err
			}
		}
		course.Sessions = sessions
		return nil
	})
}

func (r *courseRepo) GetActiveByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Where("course_id = ? AND is_active = TRUE", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, f CourseFilter) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("is_active = TRUE")

	if f.Semester != "" {
		q = q.Where("semester_offered IN ?", []string{f.Semester, "Both"})
	}
	if f.DegreeProgram != "" {
		q = q.Where("degree_program = ?", f.DegreeProgram)
	}
	if f.SemesterLevel != nil {
		q = q.Where("semester_level = ?", *f.SemesterLevel)
	}
	if f.CourseType != "" {
		q = q.Where("course_type ILIKE ?", "%"+f.CourseType+"%")
	}
	if f.Instructor != "" {
		q = q.Where("instructor ILIKE ?", "%"+f.Instructor+"%")
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ? OR instructor ILIKE ? OR description ILIKE ?",
			term, term, term, term)
	}
	if f.DayOfWeek != nil {
		q = q.Where("course_id IN (?)",
			r.db.Model(&model.CourseSession{}).Select("course_id").Where("day_of_week = ?", *f.DayOfWeek))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := q.
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Order("name ASC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&courses).Error
	return courses, total, err
}

func (r *courseRepo) Search(ctx context.Context, f CourseSearchFilter) ([]model.Course, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("is_active = TRUE")

	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ? OR instructor ILIKE ? OR description ILIKE ?",
			term, term, term, term)
	}
	if len(f.DegreePrograms) > 0 {
		q = q.Where("degree_program IN ?", f.DegreePrograms)
	}
	if len(f.SemesterLevels) > 0 {
		q = q.Where("semester_level IN ?", f.SemesterLevels)
	}
	if len(f.CourseTypes) > 0 {
		q = q.Where("course_type IN ?", f.CourseTypes)
	}
	if len(f.Instructors) > 0 {
		q = q.Where("instructor IN ?", f.Instructors)
	}
	if f.Credits != nil {
		q = q.Where("credits = ?", *f.Credits)
	}

	// 场次级过滤：按星期或起止时间窗口命中任一场次即可
	sessionQ := r.db.Model(&model.CourseSession{}).Select("course_id")
	sessionFiltered := false
	if len(f.DaysOfWeek) > 0 {
		sessionQ = sessionQ.Where("day_of_week IN ?", f.DaysOfWeek)
		sessionFiltered = true
	}
	if f.TimeStart != "" && f.TimeEnd != "" {
		sessionQ = sessionQ.Where("start_time >= ? AND end_time <= ?", f.TimeStart, f.TimeEnd)
		sessionFiltered = true
	}
	if sessionFiltered {
		q = q.Where("course_id IN (?)", sessionQ)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var courses []model.Course
	err := q.
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Order("name ASC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *courseRepo) DistinctTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Distinct("course_type").
		Where("course_type <> '' AND is_active = TRUE").
		Order("course_type ASC").
		Pluck("course_type", &types).Error
	return types, err
}

func (r *courseRepo) DistinctInstructors(ctx context.Context) ([]string, error) {
	var instructors []string
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Distinct("instructor").
		Where("instructor <> '' AND is_active = TRUE").
		Order("instructor ASC").
		Pluck("instructor", &instructors).Error
	return instructors, err
}
