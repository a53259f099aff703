package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"unitable/backend/internal/dto"
	"unitable/backend/internal/model"
	"unitable/backend/internal/repository"
)

// ── 测试辅助 ──

// 测试夹具：
//   - 用户 u-1 拥有课表 tt-1；u-2 拥有 tt-2
//   - 算法:     algo-lec 周一 10:00-12:00 / algo-ex 周三 14:00-16:00
//   - 线性代数: la-lec  周一 11:00-13:00 / la-ex  周五 08:00-10:00
//   - 数据库:   db-lec  周一 12:00-13:00（与 algo-lec 首尾相接）
func setupEnrollmentTest() (EnrollmentService, *mockEnrollmentRepo) {
	ttRepo := newMockTimetableRepo()
	courseRepo := newMockCourseRepo()
	enrRepo := newMockEnrollmentRepo(ttRepo, courseRepo)
	repo := &repository.Repository{
		Timetable:     ttRepo,
		Course:        courseRepo,
		CourseSession: newMockCourseSessionRepo(courseRepo),
		Enrollment:    enrRepo,
		Comment:       newMockCommentRepo(),
	}

	ttRepo.timetables["tt-1"] = &model.Timetable{TimetableID: "tt-1", UserID: "u-1", Name: "我的课表"}
	ttRepo.timetables["tt-2"] = &model.Timetable{TimetableID: "tt-2", UserID: "u-2", Name: "别人的课表"}

	courseRepo.addCourse(&model.Course{
		CourseID: "c-algo", Name: "算法", Code: "CS201", IsActive: true,
		Sessions: []model.CourseSession{
			{SessionID: "algo-lec", SessionType: "lecture", DayOfWeek: 0, StartTime: "10:00", EndTime: "12:00"},
			{SessionID: "algo-ex", SessionType: "exercise", DayOfWeek: 2, StartTime: "14:00", EndTime: "16:00"},
		},
	})
	courseRepo.addCourse(&model.Course{
		CourseID: "c-la", Name: "线性代数", Code: "MA101", IsActive: true,
		Sessions: []model.CourseSession{
			{SessionID: "la-lec", SessionType: "lecture", DayOfWeek: 0, StartTime: "11:00", EndTime: "13:00"},
			{SessionID: "la-ex", SessionType: "exercise", DayOfWeek: 4, StartTime: "08:00", EndTime: "10:00"},
		},
	})
	courseRepo.addCourse(&model.Course{
		CourseID: "c-db", Name: "数据库", Code: "CS301", IsActive: true,
		Sessions: []model.CourseSession{
			{SessionID: "db-lec", SessionType: "lecture", DayOfWeek: 0, StartTime: "12:00", EndTime: "13:00"},
		},
	})
	courseRepo.addCourse(&model.Course{
		CourseID: "c-old", Name: "已下线课程", Code: "CS999", IsActive: false,
	})

	return NewEnrollmentService(repo, zap.NewNop()), enrRepo
}

func enrollReq(timetableID, courseID string, sessions ...string) *dto.EnrollRequest {
	return &dto.EnrollRequest{TimetableID: timetableID, CourseID: courseID, SelectedSessions: sessions}
}

// ── Enroll 测试 ──

func TestEnrollmentService_Enroll_Success(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	result, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec", "algo-ex"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if result.Reactivated {
		t.Error("首次选课不应是复活")
	}
	if result.Enrollment.Status != model.EnrollmentStatusActive {
		t.Errorf("期望status=active，实际=%s", result.Enrollment.Status)
	}
	if len(result.Enrollment.SelectedSessions) != 2 {
		t.Errorf("期望已选场次数=2，实际=%d", len(result.Enrollment.SelectedSessions))
	}
	if result.Enrollment.Course == nil || result.Enrollment.Course.Name != "算法" {
		t.Error("响应应包含课程简要信息")
	}
}

func TestEnrollmentService_Enroll_ForeignTimetable(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	// 非本人课表与不存在的课表一视同仁
	if _, err := svc.Enroll(context.Background(), enrollReq("tt-2", "c-algo", "algo-lec"), "u-1"); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("期望 ErrTimetableNotFound，实际=%v", err)
	}
	if _, err := svc.Enroll(context.Background(), enrollReq("tt-nope", "c-algo", "algo-lec"), "u-1"); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("期望 ErrTimetableNotFound，实际=%v", err)
	}
}

func TestEnrollmentService_Enroll_CourseNotFound(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-nope", "x"), "u-1"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际=%v", err)
	}
	// 已下线课程不可选
	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-old", "x"), "u-1"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("下线课程期望 ErrCourseNotFound，实际=%v", err)
	}
}

func TestEnrollmentService_Enroll_EmptySelection(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo"), "u-1"); !errors.Is(err, ErrEmptySessionSelection) {
		t.Errorf("期望 ErrEmptySessionSelection，实际=%v", err)
	}
}

func TestEnrollmentService_Enroll_SessionNotInCourse(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	// la-lec 属于线性代数，不属于算法
	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec", "la-lec"), "u-1"); !errors.Is(err, ErrSessionNotInCourse) {
		t.Errorf("期望 ErrSessionNotInCourse，实际=%v", err)
	}
	// 不存在的场次同样拒绝
	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "sess-nope"), "u-1"); !errors.Is(err, ErrSessionNotInCourse) {
		t.Errorf("期望 ErrSessionNotInCourse，实际=%v", err)
	}
}

func TestEnrollmentService_Enroll_Duplicate(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1"); err != nil {
		t.Fatalf("首次 Enroll 应成功: %v", err)
	}
	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-ex"), "u-1"); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("重复选课期望 ErrAlreadyEnrolled，实际=%v", err)
	}
}

func TestEnrollmentService_Enroll_TimeConflict(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1"); err != nil {
		t.Fatalf("首次 Enroll 应成功: %v", err)
	}

	// la-lec 周一 11:00-13:00 与 algo-lec 周一 10:00-12:00 重叠
	_, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-la", "la-lec"), "u-1")
	var conflictErr *TimeConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望 TimeConflictError，实际=%v", err)
	}
	if len(conflictErr.Conflicts) != 1 {
		t.Fatalf("期望冲突对数=1，实际=%d", len(conflictErr.Conflicts))
	}
	pair := conflictErr.Conflicts[0]
	if pair.NewSession.Course != "线性代数" || pair.ExistingSession.Course != "算法" {
		t.Errorf("冲突信息应指明双方课程名: %+v", pair)
	}
	if pair.NewSession.Time != "11:00-13:00" || pair.ExistingSession.Time != "10:00-12:00" {
		t.Errorf("冲突信息应包含双方时间段: %+v", pair)
	}
}

func TestEnrollmentService_Enroll_TouchingBoundaryOK(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1"); err != nil {
		t.Fatalf("首次 Enroll 应成功: %v", err)
	}
	// db-lec 周一 12:00-13:00 与 algo-lec 首尾相接，不冲突
	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-db", "db-lec"), "u-1"); err != nil {
		t.Errorf("首尾相接的场次应可选: %v", err)
	}
}

func TestEnrollmentService_Enroll_Reactivate(t *testing.T) {
	svc, enrRepo := setupEnrollmentTest()

	first, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if err := svc.Unenroll(context.Background(), first.Enrollment.ID, "u-1"); err != nil {
		t.Fatalf("Unenroll 应成功: %v", err)
	}

	again, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-ex"), "u-1")
	if err != nil {
		t.Fatalf("重新选课应成功: %v", err)
	}
	if !again.Reactivated {
		t.Error("重新选课应复用已退课记录")
	}
	if again.Enrollment.ID != first.Enrollment.ID {
		t.Errorf("应复用同一记录: %s != %s", again.Enrollment.ID, first.Enrollment.ID)
	}
	if len(again.Enrollment.SelectedSessions) != 1 || again.Enrollment.SelectedSessions[0] != "algo-ex" {
		t.Errorf("场次选择应被替换: %v", again.Enrollment.SelectedSessions)
	}
	if len(enrRepo.enrollments) != 1 {
		t.Errorf("同一 (课表,课程) 应只有一行记录，实际=%d", len(enrRepo.enrollments))
	}
}

// ── Unenroll 测试 ──

func TestEnrollmentService_Unenroll_Twice(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	result, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	if err := svc.Unenroll(context.Background(), result.Enrollment.ID, "u-1"); err != nil {
		t.Fatalf("首次 Unenroll 应成功: %v", err)
	}
	if err := svc.Unenroll(context.Background(), result.Enrollment.ID, "u-1"); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("重复退课期望 ErrEnrollmentNotFound，实际=%v", err)
	}
}

func TestEnrollmentService_Unenroll_ForeignRecord(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	result, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if err := svc.Unenroll(context.Background(), result.Enrollment.ID, "u-2"); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("他人记录期望 ErrEnrollmentNotFound，实际=%v", err)
	}
}

// ── Update 测试 ──

func TestEnrollmentService_Update_SelfExclusion(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	result, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	// 换回同一场次：冲突检查必须排除本记录自身
	updated, err := svc.Update(context.Background(), result.Enrollment.ID,
		&dto.UpdateEnrollmentRequest{SelectedSessions: []string{"algo-lec"}}, "u-1")
	if err != nil {
		t.Fatalf("与自身旧选择重叠不应视为冲突: %v", err)
	}
	if len(updated.SelectedSessions) != 1 || updated.SelectedSessions[0] != "algo-lec" {
		t.Errorf("场次选择应保持: %v", updated.SelectedSessions)
	}
}

func TestEnrollmentService_Update_ConflictWithOther(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1"); err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	laResult, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-la", "la-ex"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	// la-lec 与 algo-lec 重叠：换场次应被拒绝
	_, err = svc.Update(context.Background(), laResult.Enrollment.ID,
		&dto.UpdateEnrollmentRequest{SelectedSessions: []string{"la-lec"}}, "u-1")
	var conflictErr *TimeConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望 TimeConflictError，实际=%v", err)
	}
}

func TestEnrollmentService_Update_OptionalFieldsOnly(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	result, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	color := "#ff0000"
	minutes := 30
	updated, err := svc.Update(context.Background(), result.Enrollment.ID,
		&dto.UpdateEnrollmentRequest{CustomColor: &color, ReminderMinutes: &minutes}, "u-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.CustomColor == nil || *updated.CustomColor != "#ff0000" {
		t.Error("自定义颜色应被更新")
	}
	if updated.ReminderMinutes != 30 {
		t.Errorf("期望ReminderMinutes=30，实际=%d", updated.ReminderMinutes)
	}
	// 未出现的字段保持不变
	if len(updated.SelectedSessions) != 1 || updated.SelectedSessions[0] != "algo-lec" {
		t.Errorf("场次选择不应被修改: %v", updated.SelectedSessions)
	}
}

func TestEnrollmentService_Update_EmptySelection(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	result, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}

	// nil 表示不修改，空数组表示非法
	if _, err := svc.Update(context.Background(), result.Enrollment.ID,
		&dto.UpdateEnrollmentRequest{SelectedSessions: []string{}}, "u-1"); !errors.Is(err, ErrEmptySessionSelection) {
		t.Errorf("空场次选择期望 ErrEmptySessionSelection，实际=%v", err)
	}
}

// ── ListMine 测试 ──

func TestEnrollmentService_ListMine(t *testing.T) {
	svc, _ := setupEnrollmentTest()

	if _, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-algo", "algo-lec"), "u-1"); err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	dropped, err := svc.Enroll(context.Background(), enrollReq("tt-1", "c-la", "la-ex"), "u-1")
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if err := svc.Unenroll(context.Background(), dropped.Enrollment.ID, "u-1"); err != nil {
		t.Fatalf("Unenroll 应成功: %v", err)
	}

	mine, err := svc.ListMine(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListMine 应成功: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("仅生效选课应返回，期望1条实际=%d", len(mine))
	}
	if mine[0].CourseID != "c-algo" {
		t.Errorf("期望课程c-algo，实际=%s", mine[0].CourseID)
	}
}

// ── 生命周期端到端 ──

func TestEnrollmentService_Lifecycle(t *testing.T) {
	svc, _ := setupEnrollmentTest()
	ctx := context.Background()

	// 选课
	result, err := svc.Enroll(ctx, enrollReq("tt-1", "c-algo", "algo-lec"), "u-1")
	if err != nil {
		t.Fatalf("选课应成功: %v", err)
	}
	id := result.Enrollment.ID

	// 调整场次
	if _, err := svc.Update(ctx, id, &dto.UpdateEnrollmentRequest{SelectedSessions: []string{"algo-ex"}}, "u-1"); err != nil {
		t.Fatalf("调整场次应成功: %v", err)
	}

	// 退课
	if err := svc.Unenroll(ctx, id, "u-1"); err != nil {
		t.Fatalf("退课应成功: %v", err)
	}
	if mine, _ := svc.ListMine(ctx, "u-1"); len(mine) != 0 {
		t.Errorf("退课后应无生效选课，实际=%d", len(mine))
	}

	// 重新选课：复活同一记录
	again, err := svc.Enroll(ctx, enrollReq("tt-1", "c-algo", "algo-lec", "algo-ex"), "u-1")
	if err != nil {
		t.Fatalf("重新选课应成功: %v", err)
	}
	if !again.Reactivated || again.Enrollment.ID != id {
		t.Error("重新选课应复用原记录")
	}
	if mine, _ := svc.ListMine(ctx, "u-1"); len(mine) != 1 {
		t.Errorf("重新选课后应有1条生效选课，实际=%d", len(mine))
	}
}
