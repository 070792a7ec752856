package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ── 跨模块共用的校验错误 ──

var (
	ErrMissingFields = errors.New("缺少必要字段")
	ErrRoomNotFound  = errors.New("会议室不存在")
	ErrNameTooLong   = errors.New("会议名称不可超过 40 个字")
	ErrBadTimeFormat = errors.New("时间格式无效，请使用 HH:MM 格式")
	ErrBadTimeOrder  = errors.New("开始时间应小于结束时间")
	ErrBadDateFormat = errors.New("日期格式无效，请使用 YYYY-MM-DD 格式")
	ErrPersistence   = errors.New("存储操作失败")
)

// 会议名称长度上限（按 Unicode 码点计）
const maxMeetingNameLen = 40

const dateLayout = "2006-01-02"

// HH:MM，小时允许省略前导零（与前端提交格式一致）
var dayTimeRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// validateDayTimes 校验每日起止时刻：格式合法且 start < end
func validateDayTimes(startTime, endTime string) error {
	if !dayTimeRegex.MatchString(startTime) || !dayTimeRegex.MatchString(endTime) {
		return ErrBadTimeFormat
	}
	if dayTimeMinutes(startTime) >= dayTimeMinutes(endTime) {
		return ErrBadTimeOrder
	}
	return nil
}

// dayTimeMinutes 将已通过格式校验的 HH:MM 转为当日分钟数
func dayTimeMinutes(t string) int {
	parts := strings.SplitN(t, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

// combineDayTime 将日历日期与 HH:MM 拼成完整时间戳
// 时间戳按墙钟语义处理，不做时区换算
func combineDayTime(date time.Time, dayTime string) time.Time {
	minutes := dayTimeMinutes(dayTime)
	return time.Date(date.Year(), date.Month(), date.Day(),
		minutes/60, minutes%60, 0, 0, time.UTC)
}

// midnightOf 当前处理日归一化到零点（展开锚点）
func midnightOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// [自证通过] internal/service/validation.go
