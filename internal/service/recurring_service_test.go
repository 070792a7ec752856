package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"mrbs/backend/internal/dto"
	"mrbs/backend/internal/model"
	"mrbs/backend/internal/repository"
	"mrbs/backend/internal/rrule"
)

// 固定处理日：2026-02-11（周三）
var testToday = time.Date(2026, 2, 11, 9, 30, 0, 0, time.UTC)

func newTestRecurringService(rooms *mockRoomRepo, series *mockSeriesRepo, reservations *mockReservationRepo) *recurringService {
	repo := &repository.Repository{
		Room:        rooms,
		Series:      series,
		Reservation: reservations,
	}
	return &recurringService{
		repo:      repo,
		conflicts: &conflictChecker{reservations: reservations},
		logger:    zap.NewNop(),
		now:       func() time.Time { return testToday },
	}
}

func validRecurringRequest() *dto.CreateRecurringRequest {
	return &dto.CreateRecurringRequest{
		RoomID:    1,
		Name:      "周会",
		StartTime: "09:00",
		EndTime:   "10:00",
		RRule:     "FREQ=WEEKLY;BYDAY=WE;COUNT=3",
	}
}

// ══════════════════════ CreateSeries ══════════════════════

func TestCreateSeriesSuccess(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1, RoomName: "101"})
	series := newMockSeriesRepo()
	reservations := newMockReservationRepo()
	svc := newTestRecurringService(rooms, series, reservations)

	resp, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice")
	if err != nil {
		t.Fatalf("CreateSeries 意外失败: %v", err)
	}

	if resp.SeriesID == 0 {
		t.Error("响应未携带规则 ID")
	}
	if resp.CreatedCount != 3 {
		t.Errorf("CreatedCount = %d, 期望 3", resp.CreatedCount)
	}
	want := []string{"2026-02-11", "2026-02-18", "2026-02-25"}
	if !reflect.DeepEqual(resp.Occurrences, want) {
		t.Errorf("Occurrences = %v, 期望 %v", resp.Occurrences, want)
	}

	// 规则记录落库规范化文本
	stored := series.series[resp.SeriesID]
	if stored == nil {
		t.Fatal("规则记录未持久化")
	}
	if stored.RRule != "FREQ=WEEKLY;BYDAY=WE;COUNT=3" {
		t.Errorf("落库规则文本 = %q", stored.RRule)
	}
	if !stored.Show {
		t.Error("Show 缺省应为 true")
	}

	// 每个场次携带规则 ID 与来源日期
	if reservations.activeCount() != 3 {
		t.Fatalf("生效场次 = %d, 期望 3", reservations.activeCount())
	}
	for _, r := range reservations.reservations {
		if r.SeriesID == nil || *r.SeriesID != resp.SeriesID {
			t.Error("场次未关联规则 ID")
		}
		if r.OccurrenceDate == nil {
			t.Error("场次未携带来源日期")
		}
	}
}

func TestCreateSeriesNormalizesRuleText(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	series := newMockSeriesRepo()
	svc := newTestRecurringService(rooms, series, newMockReservationRepo())

	req := validRecurringRequest()
	req.RRule = "RRULE:COUNT=3;BYDAY=WE;FREQ=WEEKLY" // 乱序 + 前缀

	resp, err := svc.CreateSeries(context.Background(), req, "alice")
	if err != nil {
		t.Fatalf("CreateSeries 意外失败: %v", err)
	}
	if got := series.series[resp.SeriesID].RRule; got != "FREQ=WEEKLY;BYDAY=WE;COUNT=3" {
		t.Errorf("落库规则文本未规范化: %q", got)
	}
}

func TestCreateSeriesValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.CreateRecurringRequest)
		wantErr error
	}{
		{
			name:    "缺少会议室",
			mutate:  func(r *dto.CreateRecurringRequest) { r.RoomID = 0 },
			wantErr: ErrMissingFields,
		},
		{
			name:    "缺少名称",
			mutate:  func(r *dto.CreateRecurringRequest) { r.Name = "" },
			wantErr: ErrMissingFields,
		},
		{
			name:    "缺少规则文本",
			mutate:  func(r *dto.CreateRecurringRequest) { r.RRule = "" },
			wantErr: ErrMissingFields,
		},
		{
			name:    "规则文本非法",
			mutate:  func(r *dto.CreateRecurringRequest) { r.RRule = "FREQ=DAILY;COUNT=3" },
			wantErr: rrule.ErrMalformedRule,
		},
		{
			name:    "会议室不存在",
			mutate:  func(r *dto.CreateRecurringRequest) { r.RoomID = 99 },
			wantErr: ErrRoomNotFound,
		},
		{
			name: "名称超长",
			mutate: func(r *dto.CreateRecurringRequest) {
				name := ""
				for i := 0; i < 41; i++ {
					name += "字"
				}
				r.Name = name
			},
			wantErr: ErrNameTooLong,
		},
		{
			name:    "时间格式非法",
			mutate:  func(r *dto.CreateRecurringRequest) { r.StartTime = "9:60" },
			wantErr: ErrBadTimeFormat,
		},
		{
			name:    "起止顺序颠倒",
			mutate:  func(r *dto.CreateRecurringRequest) { r.StartTime = "11:00" },
			wantErr: ErrBadTimeOrder,
		},
		{
			name:    "起止相等",
			mutate:  func(r *dto.CreateRecurringRequest) { r.StartTime = "10:00" },
			wantErr: ErrBadTimeOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms := newMockRoomRepo(&model.Room{RoomID: 1})
			series := newMockSeriesRepo()
			reservations := newMockReservationRepo()
			svc := newTestRecurringService(rooms, series, reservations)

			req := validRecurringRequest()
			tt.mutate(req)

			_, err := svc.CreateSeries(context.Background(), req, "alice")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("错误 = %v, 期望 %v", err, tt.wantErr)
			}
			if len(series.series) != 0 || reservations.activeCount() != 0 {
				t.Error("校验失败不应产生任何持久化副作用")
			}
		})
	}
}

func TestCreateSeriesNameAtLimit(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	svc := newTestRecurringService(rooms, newMockSeriesRepo(), newMockReservationRepo())

	req := validRecurringRequest()
	name := ""
	for i := 0; i < 40; i++ {
		name += "字"
	}
	req.Name = name

	if _, err := svc.CreateSeries(context.Background(), req, "alice"); err != nil {
		t.Errorf("恰好 40 个码点的名称应通过: %v", err)
	}
}

func TestCreateSeriesEmptySchedule(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	svc := newTestRecurringService(rooms, newMockSeriesRepo(), newMockReservationRepo())

	req := validRecurringRequest()
	req.RRule = "FREQ=WEEKLY;BYDAY=WE;UNTIL=20260101" // 早于处理日

	if _, err := svc.CreateSeries(context.Background(), req, "alice"); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("错误 = %v, 期望 ErrEmptySchedule", err)
	}
}

func TestCreateSeriesConflict(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	series := newMockSeriesRepo()
	// 2026-02-18 09:30-10:30 已有预约，与第二场 09:00-10:00 重叠
	reservations := newMockReservationRepo(&model.Reservation{
		RoomID:    1,
		Status:    model.ReservationActive,
		StartTime: time.Date(2026, 2, 18, 9, 30, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 2, 18, 10, 30, 0, 0, time.UTC),
	})
	svc := newTestRecurringService(rooms, series, reservations)

	_, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice")

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("错误 = %v, 期望 *ConflictError", err)
	}
	if !reflect.DeepEqual(conflictErr.Dates, []string{"2026-02-18"}) {
		t.Errorf("冲突日期 = %v, 期望 [2026-02-18]", conflictErr.Dates)
	}
	if len(series.series) != 0 || reservations.activeCount() != 1 {
		t.Error("冲突时不应持久化任何新记录")
	}
}

func TestCreateSeriesConflictReportsAllDates(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	// 第一场与第三场均冲突，第二场空闲
	reservations := newMockReservationRepo(
		&model.Reservation{
			RoomID:    1,
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC),
		},
		&model.Reservation{
			RoomID:    1,
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		},
	)
	svc := newTestRecurringService(rooms, newMockSeriesRepo(), reservations)

	_, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice")

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("错误 = %v, 期望 *ConflictError", err)
	}
	want := []string{"2026-02-11", "2026-02-25"}
	if !reflect.DeepEqual(conflictErr.Dates, want) {
		t.Errorf("冲突日期 = %v, 期望 %v", conflictErr.Dates, want)
	}
}

func TestCreateSeriesIgnoresCancelledAndOtherRooms(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1}, &model.Room{RoomID: 2})
	// 同时段：已取消的预约 + 其他会议室的预约，均不构成冲突
	reservations := newMockReservationRepo(
		&model.Reservation{
			RoomID:    1,
			Status:    model.ReservationCancelled,
			StartTime: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC),
		},
		&model.Reservation{
			RoomID:    2,
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC),
		},
	)
	svc := newTestRecurringService(rooms, newMockSeriesRepo(), reservations)

	if _, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice"); err != nil {
		t.Errorf("已取消与异会议室的预约不应构成冲突: %v", err)
	}
}

func TestCreateSeriesBackToBackAllowed(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	// 既有预约 10:00-11:00，新场次 09:00-10:00 边界相接
	reservations := newMockReservationRepo(&model.Reservation{
		RoomID:    1,
		Status:    model.ReservationActive,
		StartTime: time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 2, 11, 11, 0, 0, 0, time.UTC),
	})
	svc := newTestRecurringService(rooms, newMockSeriesRepo(), reservations)

	if _, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice"); err != nil {
		t.Errorf("背靠背预约不应构成冲突: %v", err)
	}
}

func TestCreateSeriesBatchFailureRollsBack(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	series := newMockSeriesRepo()
	reservations := newMockReservationRepo()
	reservations.batchErr = true
	svc := newTestRecurringService(rooms, series, reservations)

	_, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("错误 = %v, 期望 ErrPersistence", err)
	}

	if len(series.series) != 0 {
		t.Error("批量插入失败后规则记录应被回滚删除")
	}
	if len(series.deleted) != 1 {
		t.Errorf("Delete 调用次数 = %d, 期望 1", len(series.deleted))
	}
}

func TestCreateSeriesRollbackFailureOrphans(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	series := newMockSeriesRepo()
	series.deleteErr = true
	reservations := newMockReservationRepo()
	reservations.batchErr = true
	svc := newTestRecurringService(rooms, series, reservations)

	_, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice")
	if !errors.Is(err, ErrOrphanedSeries) {
		t.Errorf("错误 = %v, 期望 ErrOrphanedSeries", err)
	}
}

// ══════════════════════ GetSeries / CancelSeries ══════════════════════

func TestGetSeriesOwnership(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	series := newMockSeriesRepo()
	reservations := newMockReservationRepo()
	svc := newTestRecurringService(rooms, series, reservations)

	resp, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice")
	if err != nil {
		t.Fatalf("CreateSeries 失败: %v", err)
	}

	// 所有者可读
	detail, err := svc.GetSeries(context.Background(), resp.SeriesID, "alice", "user")
	if err != nil {
		t.Fatalf("所有者读取失败: %v", err)
	}
	if len(detail.Reservations) != 3 {
		t.Errorf("详情场次数 = %d, 期望 3", len(detail.Reservations))
	}

	// 非所有者被拒
	if _, err := svc.GetSeries(context.Background(), resp.SeriesID, "bob", "user"); !errors.Is(err, ErrNotSeriesOwner) {
		t.Errorf("非所有者错误 = %v, 期望 ErrNotSeriesOwner", err)
	}

	// admin 放行
	if _, err := svc.GetSeries(context.Background(), resp.SeriesID, "bob", "admin"); err != nil {
		t.Errorf("admin 读取失败: %v", err)
	}

	// 不存在的规则
	if _, err := svc.GetSeries(context.Background(), 999, "alice", "user"); !errors.Is(err, ErrSeriesNotFound) {
		t.Errorf("不存在规则的错误 = %v, 期望 ErrSeriesNotFound", err)
	}
}

func TestCancelSeries(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	series := newMockSeriesRepo()
	reservations := newMockReservationRepo()
	svc := newTestRecurringService(rooms, series, reservations)

	resp, err := svc.CreateSeries(context.Background(), validRecurringRequest(), "alice")
	if err != nil {
		t.Fatalf("CreateSeries 失败: %v", err)
	}

	// 非所有者不可取消
	if err := svc.CancelSeries(context.Background(), resp.SeriesID, "bob", "user"); !errors.Is(err, ErrNotSeriesOwner) {
		t.Errorf("非所有者错误 = %v, 期望 ErrNotSeriesOwner", err)
	}

	if err := svc.CancelSeries(context.Background(), resp.SeriesID, "alice", "user"); err != nil {
		t.Fatalf("CancelSeries 失败: %v", err)
	}

	// 场次软取消，规则记录硬删除
	if reservations.activeCount() != 0 {
		t.Errorf("生效场次 = %d, 期望 0", reservations.activeCount())
	}
	if len(reservations.reservations) != 3 {
		t.Error("软取消不应物理删除场次记录")
	}
	if _, ok := series.series[resp.SeriesID]; ok {
		t.Error("规则记录应被硬删除")
	}
}

// [自证通过] internal/service/recurring_service_test.go
