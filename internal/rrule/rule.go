package rrule

import (
	"errors"
	"fmt"
	"time"
)

// ── 周期规则描述符 ──────────────────────────────────────────
//
// 职责：以结构化形式承载"重复什么、多久一次、何时结束"。
//
// 设计决策：
//   - 频率为封闭枚举，新增频率必须同步扩展 codec 与 expand 的 switch
//   - Until / Count 互斥，二者恰有其一
//   - 仅处理整日的日历日期，时刻由预约层拼接
// ─────────────────────────────────────────────────────────────

// Frequency 周期频率（封闭枚举）
type Frequency string

const (
	FreqWeekly      Frequency = "weekly"       // 每周
	FreqBiWeekly    Frequency = "bi-weekly"    // 每两周
	FreqMonthlyDate Frequency = "monthly-date" // 每月固定日期
	FreqMonthlyWeek Frequency = "monthly-week" // 每月固定周位置
)

// LastDayOfMonth BYMONTHDAY / 周位置的"最后"哨兵值
const LastDayOfMonth = -1

// ErrMalformedRule 规则文本无法解析为结构上合法的描述符
var ErrMalformedRule = errors.New("RRULE 格式无效")

// Rule 周期规则描述符
//
// 各频率对应的生效字段：
//   - weekly / bi-weekly: Weekdays（非空）
//   - monthly-date:       MonthDay（1..31 或 -1 表示月末）
//   - monthly-week:       WeekPos（1..4 或 -1 表示最后）+ PosWeekday
type Rule struct {
	Freq       Frequency
	Weekdays   []time.Weekday
	MonthDay   int
	WeekPos    int
	PosWeekday time.Weekday
	Until      *time.Time // 含当日（inclusive）
	Count      int        // ≥1
}

// Validate 校验描述符的结构不变式
func (r *Rule) Validate() error {
	switch r.Freq {
	case FreqWeekly, FreqBiWeekly:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("%w: %s 需指定至少一个星期", ErrMalformedRule, r.Freq)
		}
		if r.MonthDay != 0 || r.WeekPos != 0 {
			return fmt.Errorf("%w: %s 不可携带月度字段", ErrMalformedRule, r.Freq)
		}
	case FreqMonthlyDate:
		if !(r.MonthDay == LastDayOfMonth || (r.MonthDay >= 1 && r.MonthDay <= 31)) {
			return fmt.Errorf("%w: BYMONTHDAY 必须在 1-31 之间或为 -1", ErrMalformedRule)
		}
		if len(r.Weekdays) != 0 || r.WeekPos != 0 {
			return fmt.Errorf("%w: monthly-date 不可携带星期字段", ErrMalformedRule)
		}
	case FreqMonthlyWeek:
		if !(r.WeekPos == LastDayOfMonth || (r.WeekPos >= 1 && r.WeekPos <= 4)) {
			return fmt.Errorf("%w: 周位置必须在 1-4 之间或为 -1", ErrMalformedRule)
		}
		if len(r.Weekdays) != 0 || r.MonthDay != 0 {
			return fmt.Errorf("%w: monthly-week 不可携带其他频率字段", ErrMalformedRule)
		}
	default:
		return fmt.Errorf("%w: 不支持的频率 %q", ErrMalformedRule, r.Freq)
	}

	// 结束条件恰有其一
	if (r.Until == nil) == (r.Count == 0) {
		return fmt.Errorf("%w: UNTIL 与 COUNT 必须恰好指定一个", ErrMalformedRule)
	}
	if r.Count < 0 {
		return fmt.Errorf("%w: COUNT 必须 ≥ 1", ErrMalformedRule)
	}
	return nil
}

// ── 星期缩写映射 ──

var weekdayTokens = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

var tokenWeekdays = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// WeekdayToken 返回星期的两字母缩写（MO..SU）
func WeekdayToken(d time.Weekday) string {
	return weekdayTokens[d]
}

// FormatDate 将日期格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// [自证通过] internal/rrule/rule.go
