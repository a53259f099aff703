package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Timetable     TimetableRepository
	Course        CourseRepository
	CourseSession CourseSessionRepository
	Enrollment    EnrollmentRepository
	Comment       CommentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Timetable:     NewTimetableRepo(db),
		Course:        NewCourseRepo(db),
		CourseSession: NewCourseSessionRepo(db),
		Enrollment:    NewEnrollmentRepo(db),
		Comment:       NewCommentRepo(db),
	}
}
