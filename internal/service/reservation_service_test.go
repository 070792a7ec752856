package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"mrbs/backend/internal/dto"
	"mrbs/backend/internal/model"
	"mrbs/backend/internal/repository"
)

func newTestReservationService(rooms *mockRoomRepo, reservations *mockReservationRepo) *reservationService {
	repo := &repository.Repository{
		Room:        rooms,
		Reservation: reservations,
	}
	return &reservationService{
		repo:      repo,
		conflicts: &conflictChecker{reservations: reservations},
		logger:    zap.NewNop(),
	}
}

func validReservationRequest() *dto.CreateReservationRequest {
	return &dto.CreateReservationRequest{
		RoomID:    1,
		Name:      "评审会",
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "10:00",
	}
}

// ══════════════════════ Create ══════════════════════

func TestCreateReservationSuccess(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1, RoomName: "101"})
	reservations := newMockReservationRepo()
	svc := newTestReservationService(rooms, reservations)

	resp, err := svc.Create(context.Background(), validReservationRequest(), "alice")
	if err != nil {
		t.Fatalf("Create 意外失败: %v", err)
	}

	if resp.ReserveID == 0 {
		t.Error("响应未携带预约 ID")
	}
	if resp.StartTime != "2026-03-02 09:00:00" || resp.EndTime != "2026-03-02 10:00:00" {
		t.Errorf("时间戳拼接错误: %s - %s", resp.StartTime, resp.EndTime)
	}
	if resp.SeriesID != nil {
		t.Error("单次预约不应关联规则 ID")
	}
	if reservations.activeCount() != 1 {
		t.Errorf("生效预约数 = %d, 期望 1", reservations.activeCount())
	}
}

func TestCreateReservationValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.CreateReservationRequest)
		wantErr error
	}{
		{
			name:    "缺少日期",
			mutate:  func(r *dto.CreateReservationRequest) { r.Date = "" },
			wantErr: ErrMissingFields,
		},
		{
			name:    "日期格式非法",
			mutate:  func(r *dto.CreateReservationRequest) { r.Date = "2026/03/02" },
			wantErr: ErrBadDateFormat,
		},
		{
			name:    "会议室不存在",
			mutate:  func(r *dto.CreateReservationRequest) { r.RoomID = 42 },
			wantErr: ErrRoomNotFound,
		},
		{
			name:    "时间格式非法",
			mutate:  func(r *dto.CreateReservationRequest) { r.EndTime = "25:00" },
			wantErr: ErrBadTimeFormat,
		},
		{
			name:    "起止顺序颠倒",
			mutate:  func(r *dto.CreateReservationRequest) { r.EndTime = "08:00" },
			wantErr: ErrBadTimeOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms := newMockRoomRepo(&model.Room{RoomID: 1})
			reservations := newMockReservationRepo()
			svc := newTestReservationService(rooms, reservations)

			req := validReservationRequest()
			tt.mutate(req)

			if _, err := svc.Create(context.Background(), req, "alice"); !errors.Is(err, tt.wantErr) {
				t.Errorf("错误 = %v, 期望 %v", err, tt.wantErr)
			}
			if reservations.activeCount() != 0 {
				t.Error("校验失败不应持久化")
			}
		})
	}
}

func TestCreateReservationShortHourFormat(t *testing.T) {
	// 小时省略前导零是合法输入
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	svc := newTestReservationService(rooms, newMockReservationRepo())

	req := validReservationRequest()
	req.StartTime = "9:00"
	req.EndTime = "9:45"

	if _, err := svc.Create(context.Background(), req, "alice"); err != nil {
		t.Errorf("省略前导零的时刻应通过: %v", err)
	}
}

func TestCreateReservationConflict(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	// 既有 09:30-10:30 与新预约 09:00-10:00 重叠
	reservations := newMockReservationRepo(&model.Reservation{
		RoomID:    1,
		Status:    model.ReservationActive,
		StartTime: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	})
	svc := newTestReservationService(rooms, reservations)

	_, err := svc.Create(context.Background(), validReservationRequest(), "alice")

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("错误 = %v, 期望 *ConflictError", err)
	}
	if reservations.activeCount() != 1 {
		t.Error("冲突时不应持久化新预约")
	}
}

func TestCreateReservationBackToBack(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	// 既有 10:00-11:00，新预约 09:00-10:00 边界相接不冲突
	reservations := newMockReservationRepo(&model.Reservation{
		RoomID:    1,
		Status:    model.ReservationActive,
		StartTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	})
	svc := newTestReservationService(rooms, reservations)

	if _, err := svc.Create(context.Background(), validReservationRequest(), "alice"); err != nil {
		t.Errorf("背靠背预约不应冲突: %v", err)
	}
}

// ══════════════════════ Cancel ══════════════════════

func TestCancelReservation(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	reservations := newMockReservationRepo(&model.Reservation{
		ReserveID:  7,
		Identifier: "alice",
		RoomID:     1,
		Status:     model.ReservationActive,
		StartTime:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	svc := newTestReservationService(rooms, reservations)

	// 非所有者被拒
	if err := svc.Cancel(context.Background(), 7, "bob", "user"); !errors.Is(err, ErrNotReservationOwner) {
		t.Errorf("非所有者错误 = %v, 期望 ErrNotReservationOwner", err)
	}

	// 所有者取消
	if err := svc.Cancel(context.Background(), 7, "alice", "user"); err != nil {
		t.Fatalf("Cancel 失败: %v", err)
	}
	if reservations.reservations[7].Status != model.ReservationCancelled {
		t.Error("预约未被软取消")
	}

	// 重复取消
	if err := svc.Cancel(context.Background(), 7, "alice", "user"); !errors.Is(err, ErrReservationCancelled) {
		t.Errorf("重复取消错误 = %v, 期望 ErrReservationCancelled", err)
	}

	// 不存在的预约
	if err := svc.Cancel(context.Background(), 404, "alice", "user"); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("不存在预约错误 = %v, 期望 ErrReservationNotFound", err)
	}
}

func TestCancelReservationAdminOverride(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	reservations := newMockReservationRepo(&model.Reservation{
		ReserveID:  8,
		Identifier: "alice",
		RoomID:     1,
		Status:     model.ReservationActive,
		StartTime:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	svc := newTestReservationService(rooms, reservations)

	if err := svc.Cancel(context.Background(), 8, "charlie", "admin"); err != nil {
		t.Errorf("admin 取消他人预约失败: %v", err)
	}
}

// ══════════════════════ ListByDate ══════════════════════

func TestListByDate(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1})
	reservations := newMockReservationRepo(
		&model.Reservation{
			RoomID:    1,
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
		&model.Reservation{
			RoomID:    1,
			Status:    model.ReservationCancelled,
			StartTime: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		},
		&model.Reservation{
			RoomID:    1,
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		},
	)
	svc := newTestReservationService(rooms, reservations)

	list, err := svc.ListByDate(context.Background(), "2026-03-02")
	if err != nil {
		t.Fatalf("ListByDate 失败: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("当日生效预约数 = %d, 期望 1", len(list))
	}

	if _, err := svc.ListByDate(context.Background(), "03/02"); !errors.Is(err, ErrBadDateFormat) {
		t.Errorf("非法日期错误 = %v, 期望 ErrBadDateFormat", err)
	}
}

// [自证通过] internal/service/reservation_service_test.go
