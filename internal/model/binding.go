package model

// UserRole 用户-角色 多对多中间表。
// 解绑为软删除；重新绑定复用同一行（restored），保证 (user_id, role_id) 唯一
type UserRole struct {
	UserID uint64 `gorm:"not null;uniqueIndex:uk_user_role,priority:1;index" json:"user_id"`
	RoleID uint64 `gorm:"not null;uniqueIndex:uk_user_role,priority:2;index" json:"role_id"`
	VersionedModel
}

// TableName 指定表名
func (UserRole) TableName() string { return "user_roles" }

// RolePermission 角色-权限 多对多中间表
type RolePermission struct {
	RoleID       uint64 `gorm:"not null;uniqueIndex:uk_role_perm,priority:1;index" json:"role_id"`
	PermissionID uint64 `gorm:"not null;uniqueIndex:uk_role_perm,priority:2;index" json:"permission_id"`
	VersionedModel
}

// TableName 指定表名
func (RolePermission) TableName() string { return "role_permissions" }

// [自证通过] internal/model/binding.go
