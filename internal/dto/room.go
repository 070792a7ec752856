package dto

// ── 会议室模块 DTO ──

// CreateRoomRequest 创建会议室请求
type CreateRoomRequest struct {
	RoomName string `json:"room_name" binding:"required,max=100"`
	Capacity int    `json:"capacity"  binding:"omitempty,min=0"`
	Location string `json:"location"  binding:"omitempty,max=200"`
}

// UpdateRoomRequest 更新会议室请求
type UpdateRoomRequest struct {
	RoomName *string `json:"room_name" binding:"omitempty,max=100"`
	Capacity *int    `json:"capacity"  binding:"omitempty,min=0"`
	Location *string `json:"location"  binding:"omitempty,max=200"`
}

// RoomResponse 会议室信息响应
type RoomResponse struct {
	RoomID   uint   `json:"room_id"`
	RoomName string `json:"room_name"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
}

// [自证通过] internal/dto/room.go
