package service

import (
	"errors"
	"fmt"
	"time"

	"unitable/backend/internal/dto"
	"unitable/backend/internal/model"
)

// ── 时间冲突检测核心 ──
//
// 场次时间为"星期 + 当日起止时间"（无日期、无时区、不跨天），
// 重叠判定采用半开区间 [start, end)：
// 上一节 10:00 结束与下一节 10:00 开始不算冲突。
// 时间值为补零的 "HH:MM" 字符串，可直接按字典序比较。

var (
	ErrInvalidTimeFormat = errors.New("时间格式无效，应为 HH:MM")
	ErrInvalidTimeOrder  = errors.New("开始时间必须早于结束时间")
	ErrInvalidDayOfWeek  = errors.New("星期必须在 0（周一）到 6（周日）之间")
)

// slotInfo 参与冲突检测的一个场次时段及其展示标签
type slotInfo struct {
	CourseName  string
	SessionType string
	DayOfWeek   int
	StartTime   string // "HH:MM"
	EndTime     string
}

// overlapsSlot 判断两个场次时段是否重叠
func overlapsSlot(a, b slotInfo) bool {
	if a.DayOfWeek != b.DayOfWeek {
		return false
	}
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// findConflicts 逐对比较候选场次与已有场次，返回全部冲突对。
// 目录规模下 O(n·m) 足够；返回空切片表示无冲突。
func findConflicts(candidates, existing []slotInfo) []dto.ConflictPair {
	var conflicts []dto.ConflictPair
	for _, cand := range candidates {
		for _, ex := range existing {
			if overlapsSlot(cand, ex) {
				conflicts = append(conflicts, dto.ConflictPair{
					NewSession:      conflictSide(cand),
					ExistingSession: conflictSide(ex),
				})
			}
		}
	}
	return conflicts
}

func conflictSide(s slotInfo) dto.ConflictSide {
	return dto.ConflictSide{
		Course:      s.CourseName,
		SessionType: s.SessionType,
		Time:        fmt.Sprintf("%s-%s", s.StartTime, s.EndTime),
	}
}

// slotFromSession 将课程场次转为冲突检测用的时段描述
func slotFromSession(sess *model.CourseSession, courseName string) slotInfo {
	return slotInfo{
		CourseName:  courseName,
		SessionType: sess.SessionType,
		DayOfWeek:   sess.DayOfWeek,
		StartTime:   formatHHMM(sess.StartTime),
		EndTime:     formatHHMM(sess.EndTime),
	}
}

// ── 时间字段校验 ──

// normalizeHHMM 校验并补零 "HH:MM" 时间串
func normalizeHHMM(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", ErrInvalidTimeFormat
	}
	return t.Format("15:04"), nil
}

// validateSlotTimes 校验场次起止时间，返回规整后的时间串
// 仅在创建/更新场次时调用，读取路径不做校验
func validateSlotTimes(start, end string) (string, string, error) {
	ns, err := normalizeHHMM(start)
	if err != nil {
		return "", "", err
	}
	ne, err := normalizeHHMM(end)
	if err != nil {
		return "", "", err
	}
	if ns >= ne {
		return "", "", ErrInvalidTimeOrder
	}
	return ns, ne, nil
}

// formatHHMM 截断数据库 TIME 列回读出的 "HH:MM:SS" 为 "HH:MM"
func formatHHMM(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
