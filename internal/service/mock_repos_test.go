package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"unitable/backend/internal/model"
	"unitable/backend/internal/repository"
)

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	timetables map[string]*model.Timetable
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{timetables: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Create(_ context.Context, tt *model.Timetable) error {
	if tt.TimetableID == "" {
		tt.TimetableID = fmt.Sprintf("tt-%d", len(m.timetables)+1)
	}
	m.timetables[tt.TimetableID] = tt
	return nil
}

func (m *mockTimetableRepo) GetOwned(_ context.Context, id, userID string) (*model.Timetable, error) {
	if tt, ok := m.timetables[id]; ok && tt.UserID == userID {
		return tt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) ListByUser(_ context.Context, userID string) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, tt := range m.timetables {
		if tt.UserID == userID {
			result = append(result, *tt)
		}
	}
	return result, nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id string) error {
	delete(m.timetables, id)
	return nil
}

// ── Mock CourseRepository（课程与场次共用同一存储）──

type mockCourseRepo struct {
	courses  map[string]*model.Course
	sessions map[string]*model.CourseSession
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{
		courses:  make(map[string]*model.Course),
		sessions: make(map[string]*model.CourseSession),
	}
}

// addCourse 测试夹具：登记课程及其场次
func (m *mockCourseRepo) addCourse(course *model.Course) {
	m.courses[course.CourseID] = course
	for i := range course.Sessions {
		sess := course.Sessions[i]
		sess.CourseID = course.CourseID
		m.sessions[sess.SessionID] = &sess
	}
}

func (m *mockCourseRepo) CreateWithSessions(_ context.Context, course *model.Course, sessions []model.CourseSession) error {
	if course.CourseID == "" {
		course.CourseID = "course-" + course.Code
	}
	for i := range sessions {
		if sessions[i].SessionID == "" {
			sessions[i].SessionID = fmt.Sprintf("%s-sess-%d", course.CourseID, i+1)
		}
		sessions[i].CourseID = course.CourseID
		m.sessions[sessions[i].SessionID] = &sessions[i]
	}
	course.Sessions = sessions
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetActiveByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok && c.IsActive {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, f repository.CourseFilter) ([]model.Course, int64, error) {
	var matched []model.Course
	for _, c := range m.courses {
		if !c.IsActive {
			continue
		}
		if f.Semester != "" && c.SemesterOffered != f.Semester && c.SemesterOffered != "Both" {
			continue
		}
		if f.DegreeProgram != "" && c.DegreeProgram != f.DegreeProgram {
			continue
		}
		if f.SemesterLevel != nil && (c.SemesterLevel == nil || *c.SemesterLevel != *f.SemesterLevel) {
			continue
		}
		if f.CourseType != "" && !strings.Contains(strings.ToLower(c.CourseType), strings.ToLower(f.CourseType)) {
			continue
		}
		if f.Instructor != "" && !strings.Contains(strings.ToLower(c.Instructor), strings.ToLower(f.Instructor)) {
			continue
		}
		if f.Search != "" {
			term := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(c.Name), term) &&
				!strings.Contains(strings.ToLower(c.Code), term) &&
				!strings.Contains(strings.ToLower(c.Instructor), term) {
				continue
			}
		}
		if f.DayOfWeek != nil {
			hit := false
			for _, s := range m.sessions {
				if s.CourseID == c.CourseID && s.DayOfWeek == *f.DayOfWeek {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	start := (f.Page - 1) * f.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + f.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockCourseRepo) Search(_ context.Context, f repository.CourseSearchFilter) ([]model.Course, error) {
	var matched []model.Course
	for _, c := range m.courses {
		if !c.IsActive {
			continue
		}
		if f.Search != "" {
			term := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(c.Name), term) &&
				!strings.Contains(strings.ToLower(c.Code), term) {
				continue
			}
		}
		if len(f.CourseTypes) > 0 && !containsString(f.CourseTypes, c.CourseType) {
			continue
		}
		if len(f.Instructors) > 0 && !containsString(f.Instructors, c.Instructor) {
			continue
		}
		if f.Credits != nil && (c.Credits == nil || *c.Credits != *f.Credits) {
			continue
		}
		if len(f.DaysOfWeek) > 0 || (f.TimeStart != "" && f.TimeEnd != "") {
			hit := false
			for _, s := range m.sessions {
				if s.CourseID != c.CourseID {
					continue
				}
				if len(f.DaysOfWeek) > 0 && !containsInt(f.DaysOfWeek, s.DayOfWeek) {
					continue
				}
				if f.TimeStart != "" && f.TimeEnd != "" &&
					(s.StartTime < f.TimeStart || s.EndTime > f.TimeEnd) {
					continue
				}
				hit = true
				break
			}
			if !hit {
				continue
			}
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string, deletedBy string) error {
	if c, ok := m.courses[id]; ok {
		c.IsActive = false
		c.DeletedBy = &deletedBy
	}
	return nil
}

func (m *mockCourseRepo) DistinctTypes(_ context.Context) ([]string, error) {
	return m.distinct(func(c *model.Course) string { return c.CourseType }), nil
}

func (m *mockCourseRepo) DistinctInstructors(_ context.Context) ([]string, error) {
	return m.distinct(func(c *model.Course) string { return c.Instructor }), nil
}

func (m *mockCourseRepo) distinct(get func(*model.Course) string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, c := range m.courses {
		v := get(c)
		if c.IsActive && v != "" && !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	sort.Strings(result)
	return result
}

// ── Mock CourseSessionRepository（复用 mockCourseRepo 的存储）──

type mockCourseSessionRepo struct {
	store *mockCourseRepo
}

func newMockCourseSessionRepo(store *mockCourseRepo) *mockCourseSessionRepo {
	return &mockCourseSessionRepo{store: store}
}

func (m *mockCourseSessionRepo) Create(_ context.Context, sess *model.CourseSession) error {
	if sess.SessionID == "" {
		sess.SessionID = fmt.Sprintf("sess-%d", len(m.store.sessions)+1)
	}
	m.store.sessions[sess.SessionID] = sess
	if c, ok := m.store.courses[sess.CourseID]; ok {
		c.Sessions = append(c.Sessions, *sess)
	}
	return nil
}

func (m *mockCourseSessionRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseSession, error) {
	var result []model.CourseSession
	for _, s := range m.store.sessions {
		if s.CourseID == courseID {
			result = append(result, *s)
		}
	}
	sortSessions(result)
	return result, nil
}

func (m *mockCourseSessionRepo) ListByIDs(_ context.Context, ids []string) ([]model.CourseSession, error) {
	seen := make(map[string]bool)
	var result []model.CourseSession
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := m.store.sessions[id]; ok {
			cp := *s
			cp.Course = m.store.courses[s.CourseID]
			result = append(result, cp)
		}
	}
	sortSessions(result)
	return result, nil
}

func sortSessions(sessions []model.CourseSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].DayOfWeek != sessions[j].DayOfWeek {
			return sessions[i].DayOfWeek < sessions[j].DayOfWeek
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	timetables  *mockTimetableRepo
	store       *mockCourseRepo
}

func newMockEnrollmentRepo(timetables *mockTimetableRepo, store *mockCourseRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		enrollments: make(map[string]*model.Enrollment),
		timetables:  timetables,
		store:       store,
	}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	// 唯一索引 (timetable_id, course_id) 的模拟
	for _, ex := range m.enrollments {
		if ex.TimetableID == e.TimetableID && ex.CourseID == e.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	if e.EnrollmentID == "" {
		e.EnrollmentID = fmt.Sprintf("enr-%d", len(m.enrollments)+1)
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}
	m.enrollments[e.EnrollmentID] = e
	return nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.Enrollment) error {
	m.enrollments[e.EnrollmentID] = e
	return nil
}

func (m *mockEnrollmentRepo) GetOwned(_ context.Context, id, userID string) (*model.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	tt, ok := m.timetables.timetables[e.TimetableID]
	if !ok || tt.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	e.Course = m.store.courses[e.CourseID]
	return e, nil
}

func (m *mockEnrollmentRepo) GetByTimetableAndCourse(_ context.Context, timetableID, courseID string) (*model.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.TimetableID == timetableID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ListActiveByTimetable(_ context.Context, timetableID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.TimetableID == timetableID && e.Status == model.EnrollmentStatusActive {
			cp := *e
			cp.Course = m.store.courses[e.CourseID]
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockEnrollmentRepo) ListActiveByUser(_ context.Context, userID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		tt, ok := m.timetables.timetables[e.TimetableID]
		if !ok || tt.UserID != userID || e.Status != model.EnrollmentStatusActive {
			continue
		}
		cp := *e
		cp.Course = m.store.courses[e.CourseID]
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockEnrollmentRepo) CountActiveByCourse(_ context.Context, courseID string) (int64, error) {
	var count int64
	for _, e := range m.enrollments {
		if e.CourseID == courseID && e.Status == model.EnrollmentStatusActive {
			count++
		}
	}
	return count, nil
}

// ── Mock CommentRepository ──

type mockCommentRepo struct {
	comments map[string]*model.CourseComment
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[string]*model.CourseComment)}
}

func (m *mockCommentRepo) Create(_ context.Context, c *model.CourseComment) error {
	if c.CommentID == "" {
		c.CommentID = fmt.Sprintf("cmt-%d", len(m.comments)+1)
	}
	m.comments[c.CommentID] = c
	return nil
}

func (m *mockCommentRepo) ListVisible(_ context.Context, courseID, userID string) ([]model.CourseComment, error) {
	var result []model.CourseComment
	for _, c := range m.comments {
		if c.CourseID != courseID {
			continue
		}
		if c.UserID == userID || !c.IsPrivate {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCommentRepo) GetOwned(_ context.Context, id, userID string) (*model.CourseComment, error) {
	if c, ok := m.comments[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCommentRepo) Update(_ context.Context, c *model.CourseComment) error {
	m.comments[c.CommentID] = c
	return nil
}

func (m *mockCommentRepo) Delete(_ context.Context, id string) error {
	delete(m.comments, id)
	return nil
}

// ── 通用辅助 ──

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}
