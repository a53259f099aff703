package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"unitable/backend/config"
	"unitable/backend/internal/dto"
	"unitable/backend/internal/model"
	"unitable/backend/internal/repository"
	"unitable/backend/pkg/redis"
)

// ── 课程目录模块业务错误 ──

var (
	ErrCourseNotFound      = errors.New("课程不存在")
	ErrCourseCodeExists    = errors.New("课程代码已存在")
	ErrNotEnrolledInCourse = errors.New("未选该课程，无法查看场次明细")
)

// 枚举缓存键名
const (
	facetCourseTypes = "course_types"
	facetInstructors = "instructors"
)

// CatalogService 课程目录业务接口
type CatalogService interface {
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	Search(ctx context.Context, req *dto.SearchCoursesRequest) ([]dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	// ListSessions 返回课程全部场次；仅选了该课的用户或管理员可访问
	ListSessions(ctx context.Context, courseID, callerID string, isAdmin bool) ([]dto.SessionResponse, error)
	Types(ctx context.Context) ([]string, error)
	Instructors(ctx context.Context) ([]string, error)

	// 管理员操作
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	AddSession(ctx context.Context, courseID string, req *dto.CreateSessionRequest, callerID string) (*dto.SessionResponse, error)
}

type catalogService struct {
	cfg    *config.Config
	repo   *repository.Repository
	cache  *redis.Client // 可为 nil，降级为每次查库
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(cfg *config.Config, repo *repository.Repository, cache *redis.Client, logger *zap.Logger) CatalogService {
	return &catalogService{cfg: cfg, repo: repo, cache: cache, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *catalogService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	filter := repository.CourseFilter{
		Semester:      req.Semester,
		DegreeProgram: req.DegreeProgram,
		SemesterLevel: req.SemesterLevel,
		CourseType:    req.CourseType,
		Instructor:    req.Instructor,
		DayOfWeek:     req.DayOfWeek,
		Search:        req.Search,
		Page:          page,
		PageSize:      pageSize,
	}

	courses, total, err := s.repo.Course.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *s.toCourseResponse(&courses[i]))
	}
	return result, total, nil
}

// ────────────────────── Search ──────────────────────

func (s *catalogService) Search(ctx context.Context, req *dto.SearchCoursesRequest) ([]dto.CourseResponse, error) {
	filter := repository.CourseSearchFilter{
		Search:         req.Search,
		DegreePrograms: req.DegreePrograms,
		SemesterLevels: req.SemesterLevels,
		CourseTypes:    req.CourseTypes,
		Instructors:    req.Instructors,
		DaysOfWeek:     req.DaysOfWeek,
		Credits:        req.Credits,
	}
	if req.TimeRange != nil {
		start, end, err := validateSlotTimes(req.TimeRange.Start, req.TimeRange.End)
		if err != nil {
			return nil, err
		}
		filter.TimeStart = start
		filter.TimeEnd = end
	}

	courses, err := s.repo.Course.Search(ctx, filter)
	if err != nil {
		s.logger.Error("组合搜索课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *s.toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *catalogService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := s.toCourseResponse(course)
	if count, err := s.repo.Enrollment.CountActiveByCourse(ctx, id); err == nil {
		resp.EnrollmentCount = count
	}
	return resp, nil
}

// ────────────────────── ListSessions ──────────────────────

func (s *catalogService) ListSessions(ctx context.Context, courseID, callerID string, isAdmin bool) ([]dto.SessionResponse, error) {
	if _, err := s.repo.Course.GetActiveByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if !isAdmin {
		enrolled, err := s.callerEnrolledIn(ctx, callerID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrNotEnrolledInCourse
		}
	}

	sessions, err := s.repo.CourseSession.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程场次失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toSessionResponse(&sessions[i]))
	}
	return result, nil
}

func (s *catalogService) callerEnrolledIn(ctx context.Context, callerID, courseID string) (bool, error) {
	enrollments, err := s.repo.Enrollment.ListActiveByUser(ctx, callerID)
	if err != nil {
		return false, err
	}
	for i := range enrollments {
		if enrollments[i].CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

// ────────────────────── Types / Instructors ──────────────────────

func (s *catalogService) Types(ctx context.Context) ([]string, error) {
	return s.facet(ctx, facetCourseTypes, s.repo.Course.DistinctTypes)
}

func (s *catalogService) Instructors(ctx context.Context) ([]string, error) {
	return s.facet(ctx, facetInstructors, s.repo.Course.DistinctInstructors)
}

// facet 先查缓存再查库；cache 为 nil 或未命中时回源并回填
func (s *catalogService) facet(ctx context.Context, name string, load func(context.Context) ([]string, error)) ([]string, error) {
	if s.cache != nil {
		if values, ok := s.cache.GetFacet(ctx, name); ok {
			return values, nil
		}
	}

	values, err := load(ctx)
	if err != nil {
		s.logger.Error("查询目录枚举失败", zap.String("facet", name), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetFacet(ctx, name, values, s.cfg.Catalog.FacetCacheTTL)
	}
	return values, nil
}

func (s *catalogService) invalidateFacets(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateFacets(ctx)
	}
}

// ────────────────────── Create ──────────────────────

func (s *catalogService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	// 课程代码唯一性
	if _, err := s.repo.Course.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrCourseCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sessions := make([]model.CourseSession, 0, len(req.Sessions))
	for i := range req.Sessions {
		sess, err := buildSession(&req.Sessions[i], callerID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}

	course := &model.Course{
		Name:            req.Name,
		Code:            req.Code,
		Instructor:      req.Instructor,
		Description:     req.Description,
		Credits:         req.Credits,
		CourseType:      defaultString(req.CourseType, "lecture"),
		SemesterOffered: req.SemesterOffered,
		DegreeProgram:   req.DegreeProgram,
		SemesterLevel:   req.SemesterLevel,
		MoodleURL:       req.MoodleURL,
		SyllabusURL:     req.SyllabusURL,
		ExternalURL:     req.ExternalURL,
		IsActive:        true,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.CreateWithSessions(ctx, course, sessions); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("创建课程失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	s.invalidateFacets(ctx)
	s.logger.Info("课程已创建", zap.String("course_id", course.CourseID), zap.String("code", course.Code))
	return s.toCourseResponse(course), nil
}

// ────────────────────── Update ──────────────────────

func (s *catalogService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Code != nil && *req.Code != course.Code {
		if _, err := s.repo.Course.GetByCode(ctx, *req.Code); err == nil {
			return nil, ErrCourseCodeExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		course.Code = *req.Code
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Credits != nil {
		course.Credits = req.Credits
	}
	if req.CourseType != nil {
		course.CourseType = *req.CourseType
	}
	if req.SemesterOffered != nil {
		course.SemesterOffered = *req.SemesterOffered
	}
	if req.DegreeProgram != nil {
		course.DegreeProgram = *req.DegreeProgram
	}
	if req.SemesterLevel != nil {
		course.SemesterLevel = req.SemesterLevel
	}
	if req.MoodleURL != nil {
		course.MoodleURL = *req.MoodleURL
	}
	if req.SyllabusURL != nil {
		course.SyllabusURL = *req.SyllabusURL
	}
	if req.ExternalURL != nil {
		course.ExternalURL = *req.ExternalURL
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateFacets(ctx)
	return s.toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *catalogService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.repo.Course.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("下线课程失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidateFacets(ctx)
	s.logger.Info("课程已下线", zap.String("course_id", id))
	return nil
}

// ────────────────────── AddSession ──────────────────────

func (s *catalogService) AddSession(ctx context.Context, courseID string, req *dto.CreateSessionRequest, callerID string) (*dto.SessionResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	sess, err := buildSession(req, callerID)
	if err != nil {
		return nil, err
	}
	sess.CourseID = courseID

	if err := s.repo.CourseSession.Create(ctx, sess); err != nil {
		s.logger.Error("创建课程场次失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return toSessionResponse(sess), nil
}

// ────────────────────── 转换辅助 ──────────────────────

// buildSession 按请求构造场次模型，含时间校验
func buildSession(req *dto.CreateSessionRequest, callerID string) (*model.CourseSession, error) {
	start, end, err := validateSlotTimes(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}

	sess := &model.CourseSession{
		SessionType: defaultString(req.SessionType, "lecture"),
		GroupName:   req.GroupName,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		Room:        req.Room,
		Weeks:       model.IntArray(req.Weeks),
		Color:       defaultString(req.Color, "#3498db"),
	}
	sess.CreatedBy = &callerID
	sess.UpdatedBy = &callerID
	return sess, nil
}

func (s *catalogService) toCourseResponse(course *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:              course.CourseID,
		Name:            course.Name,
		Code:            course.Code,
		Instructor:      course.Instructor,
		Description:     course.Description,
		Credits:         course.Credits,
		CourseType:      course.CourseType,
		SemesterOffered: course.SemesterOffered,
		DegreeProgram:   course.DegreeProgram,
		SemesterLevel:   course.SemesterLevel,
		MoodleURL:       course.MoodleURL,
		SyllabusURL:     course.SyllabusURL,
		ExternalURL:     course.ExternalURL,
		IsActive:        course.IsActive,
		CreatedAt:       course.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       course.UpdatedAt.Format(time.RFC3339),
	}
	for i := range course.Sessions {
		resp.Sessions = append(resp.Sessions, *toSessionResponse(&course.Sessions[i]))
	}
	return resp
}

func toSessionResponse(sess *model.CourseSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:          sess.SessionID,
		CourseID:    sess.CourseID,
		SessionType: sess.SessionType,
		GroupName:   sess.GroupName,
		DayOfWeek:   sess.DayOfWeek,
		StartTime:   formatHHMM(sess.StartTime),
		EndTime:     formatHHMM(sess.EndTime),
		Room:        sess.Room,
		Weeks:       sess.Weeks,
		Color:       sess.Color,
	}
}

func toCourseBrief(course *model.Course) dto.CourseBrief {
	return dto.CourseBrief{
		ID:         course.CourseID,
		Name:       course.Name,
		Code:       course.Code,
		Instructor: course.Instructor,
		CourseType: course.CourseType,
	}
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// [自证通过] internal/service/catalog_service.go
