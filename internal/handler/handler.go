package handler

import (
	"errors"
	"strconv"

	"pointledger/internal/service"
	"pointledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler 积分接口处理器
type Handler struct {
	pointService *service.PointService
}

// NewHandler 创建处理器实例
func NewHandler(pointService *service.PointService) *Handler {
	return &Handler{
		pointService: pointService,
	}
}

// userIDParam 解析路径里的用户ID
// 解析失败返回 0，交给服务层的校验统一报"无效用户ID"
func userIDParam(c *gin.Context) int64 {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0
	}
	return userID
}

// writeError 按错误类别映射业务码和 HTTP 状态
func writeError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrPointNotFound):
		response.BusinessError(c, response.CodePointNotFound, err.Error())
	case service.IsInsufficientPointError(err):
		response.BusinessError(c, response.CodeBalanceNotEnough, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// GetPoint 查询用户积分
// GET /point/:id
func (h *Handler) GetPoint(c *gin.Context) {
	point, err := h.pointService.GetPoint(c.Request.Context(), userIDParam(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, point)
}

// GetHistories 查询用户的充值/使用流水
// GET /point/:id/histories
func (h *Handler) GetHistories(c *gin.Context) {
	histories, err := h.pointService.GetHistories(c.Request.Context(), userIDParam(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, histories)
}

// Charge 充值积分
// PATCH /point/:id/charge
// 请求体是一个裸整数，例如 3000
func (h *Handler) Charge(c *gin.Context) {
	var amount int64
	if err := c.ShouldBindJSON(&amount); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	point, err := h.pointService.Charge(c.Request.Context(), userIDParam(c), amount)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, point)
}

// Use 使用积分
// PATCH /point/:id/use
// 请求体是一个裸整数，例如 150
func (h *Handler) Use(c *gin.Context) {
	var amount int64
	if err := c.ShouldBindJSON(&amount); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	point, err := h.pointService.Use(c.Request.Context(), userIDParam(c), amount)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, point)
}
