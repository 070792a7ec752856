package rrule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ── 规则文本编解码 ──
//
// 文本语法（分号分隔的 key=value，解析时顺序无关）：
//   FREQ=WEEKLY[;INTERVAL=2];BYDAY=MO[,WE...];{UNTIL=YYYYMMDD|COUNT=n}
//   FREQ=MONTHLY;BYMONTHDAY=<1..31|-1>;{UNTIL=...|COUNT=...}
//   FREQ=MONTHLY;BYDAY=<{1..4|-1}><MO..SU>;{UNTIL=...|COUNT=...}
//
// INTERVAL=2 当且仅当 bi-weekly；WEEKLY 缺省 INTERVAL 视为 1。

const untilLayout = "20060102"

// Encode 将描述符序列化为规范规则文本
// 字段顺序固定：FREQ → INTERVAL → BYDAY/BYMONTHDAY → UNTIL/COUNT
func (r *Rule) Encode() string {
	var b strings.Builder

	switch r.Freq {
	case FreqWeekly:
		b.WriteString("FREQ=WEEKLY;BYDAY=" + joinWeekdays(r.Weekdays))
	case FreqBiWeekly:
		b.WriteString("FREQ=WEEKLY;INTERVAL=2;BYDAY=" + joinWeekdays(r.Weekdays))
	case FreqMonthlyDate:
		b.WriteString("FREQ=MONTHLY;BYMONTHDAY=" + strconv.Itoa(r.MonthDay))
	case FreqMonthlyWeek:
		b.WriteString("FREQ=MONTHLY;BYDAY=" + strconv.Itoa(r.WeekPos) + WeekdayToken(r.PosWeekday))
	}

	if r.Until != nil {
		b.WriteString(";UNTIL=" + r.Until.Format(untilLayout))
	} else {
		b.WriteString(";COUNT=" + strconv.Itoa(r.Count))
	}

	return b.String()
}

// Parse 解析规则文本为描述符
// 文本无法解析为结构合法的描述符时返回包装了 ErrMalformedRule 的错误
func Parse(text string) (*Rule, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: 空字符串", ErrMalformedRule)
	}

	// 兼容携带 RRULE: 前缀的输入
	text = strings.TrimPrefix(text, "RRULE:")

	kv := make(map[string]string)
	for _, part := range strings.Split(text, ";") {
		idx := strings.IndexByte(part, '=')
		if idx <= 0 || idx == len(part)-1 {
			return nil, fmt.Errorf("%w: 非法片段 %q", ErrMalformedRule, part)
		}
		key := strings.ToUpper(strings.TrimSpace(part[:idx]))
		value := strings.TrimSpace(part[idx+1:])
		if _, dup := kv[key]; dup {
			return nil, fmt.Errorf("%w: 重复的键 %s", ErrMalformedRule, key)
		}
		kv[key] = value
	}

	rule := &Rule{}

	// ── 频率与模式字段 ──
	freq, ok := kv["FREQ"]
	if !ok {
		return nil, fmt.Errorf("%w: 缺少 FREQ", ErrMalformedRule)
	}
	delete(kv, "FREQ")

	switch freq {
	case "WEEKLY":
		rule.Freq = FreqWeekly
		if iv, ok := kv["INTERVAL"]; ok {
			switch iv {
			case "1":
				// 显式 INTERVAL=1 等价于缺省
			case "2":
				rule.Freq = FreqBiWeekly
			default:
				return nil, fmt.Errorf("%w: 不支持的 INTERVAL=%s", ErrMalformedRule, iv)
			}
			delete(kv, "INTERVAL")
		}

		byday, ok := kv["BYDAY"]
		if !ok {
			return nil, fmt.Errorf("%w: WEEKLY 缺少 BYDAY", ErrMalformedRule)
		}
		delete(kv, "BYDAY")
		days, err := parseWeekdayList(byday)
		if err != nil {
			return nil, err
		}
		rule.Weekdays = days

	case "MONTHLY":
		if md, ok := kv["BYMONTHDAY"]; ok {
			delete(kv, "BYMONTHDAY")
			n, err := strconv.Atoi(md)
			if err != nil {
				return nil, fmt.Errorf("%w: BYMONTHDAY=%s 不是整数", ErrMalformedRule, md)
			}
			rule.Freq = FreqMonthlyDate
			rule.MonthDay = n
		} else if byday, ok := kv["BYDAY"]; ok {
			delete(kv, "BYDAY")
			pos, day, err := parsePositionedWeekday(byday)
			if err != nil {
				return nil, err
			}
			rule.Freq = FreqMonthlyWeek
			rule.WeekPos = pos
			rule.PosWeekday = day
		} else {
			return nil, fmt.Errorf("%w: MONTHLY 需指定 BYMONTHDAY 或 BYDAY", ErrMalformedRule)
		}

	default:
		return nil, fmt.Errorf("%w: 不支持的 FREQ=%s", ErrMalformedRule, freq)
	}

	// ── 结束条件 ──
	untilText, hasUntil := kv["UNTIL"]
	countText, hasCount := kv["COUNT"]
	delete(kv, "UNTIL")
	delete(kv, "COUNT")

	switch {
	case hasUntil && hasCount:
		return nil, fmt.Errorf("%w: UNTIL 与 COUNT 不可同时出现", ErrMalformedRule)
	case hasUntil:
		t, err := time.ParseInLocation(untilLayout, untilText, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: UNTIL=%s 不是 YYYYMMDD", ErrMalformedRule, untilText)
		}
		rule.Until = &t
	case hasCount:
		n, err := strconv.Atoi(countText)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: COUNT=%s 必须为 ≥1 的整数", ErrMalformedRule, countText)
		}
		rule.Count = n
	default:
		return nil, fmt.Errorf("%w: 需指定 UNTIL 或 COUNT", ErrMalformedRule)
	}

	// 剩余未消费的键视为非法
	for key := range kv {
		return nil, fmt.Errorf("%w: 不支持的键 %s", ErrMalformedRule, key)
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// IsValid 校验规则文本是否合法（不展开、不抛错）
func IsValid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// ── 内部辅助 ──

// joinWeekdays 以周一为首的固定顺序拼接 BYDAY 列表
func joinWeekdays(days []time.Weekday) string {
	sorted := make([]time.Weekday, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool {
		return mondayIndex(sorted[i]) < mondayIndex(sorted[j])
	})

	tokens := make([]string, len(sorted))
	for i, d := range sorted {
		tokens[i] = WeekdayToken(d)
	}
	return strings.Join(tokens, ",")
}

func parseWeekdayList(text string) ([]time.Weekday, error) {
	parts := strings.Split(text, ",")
	seen := make(map[time.Weekday]bool, len(parts))
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		day, ok := tokenWeekdays[p]
		if !ok {
			return nil, fmt.Errorf("%w: 非法星期缩写 %q", ErrMalformedRule, p)
		}
		if seen[day] {
			return nil, fmt.Errorf("%w: 重复的星期 %s", ErrMalformedRule, p)
		}
		seen[day] = true
		days = append(days, day)
	}
	return days, nil
}

// parsePositionedWeekday 解析 "2TU" / "-1MO" 形式的周位置
func parsePositionedWeekday(text string) (int, time.Weekday, error) {
	if len(text) < 3 {
		return 0, 0, fmt.Errorf("%w: 非法周位置 %q", ErrMalformedRule, text)
	}

	token := text[len(text)-2:]
	day, ok := tokenWeekdays[token]
	if !ok {
		return 0, 0, fmt.Errorf("%w: 非法星期缩写 %q", ErrMalformedRule, token)
	}

	pos, err := strconv.Atoi(text[:len(text)-2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: 非法周位置 %q", ErrMalformedRule, text)
	}
	if pos != LastDayOfMonth && (pos < 1 || pos > 4) {
		return 0, 0, fmt.Errorf("%w: 周位置必须在 1-4 之间或为 -1", ErrMalformedRule)
	}

	return pos, day, nil
}

// [自证通过] internal/rrule/codec.go
