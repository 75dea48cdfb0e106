package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"rbac-admin/internal/model"
	"rbac-admin/internal/repository"
	pkgerrors "rbac-admin/pkg/errors"
)

// mockStore 内存数据存储，模拟全部 Repository 的行为（含软删与乐观锁语义）
type mockStore struct {
	mu        sync.Mutex
	users     map[uint64]*model.User
	roles     map[uint64]*model.Role
	perms     map[uint64]*model.Permission
	userRoles []*model.UserRole
	rolePerms []*model.RolePermission
	sysConfig *model.SystemConfig
	logs      []*model.AuditLog
	nextID    uint64

	// failAuditCreate 置为 true 时审计写入失败
	failAuditCreate bool
}

func newMockStore() *mockStore {
	return &mockStore{
		users:  make(map[uint64]*model.User),
		roles:  make(map[uint64]*model.Role),
		perms:  make(map[uint64]*model.Permission),
		nextID: 0,
	}
}

func (s *mockStore) repo() *repository.Repository {
	return &repository.Repository{
		User:           &mockUserRepo{s: s},
		Role:           &mockRoleRepo{s: s},
		Permission:     &mockPermRepo{s: s},
		UserRole:       &mockUserRoleRepo{s: s},
		RolePermission: &mockRolePermRepo{s: s},
		SystemConfig:   &mockSystemConfigRepo{s: s},
		AuditLog:       &mockAuditLogRepo{s: s},
	}
}

func (s *mockStore) allocID() uint64 {
	s.nextID++
	return s.nextID
}

// ── 造数辅助 ──

func (s *mockStore) addUser(u *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.allocID()
	}
	if u.Version == 0 {
		u.Version = 1
	}
	s.users[u.ID] = u
	return u
}

func (s *mockStore) addRole(r *model.Role) *model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.allocID()
	}
	if r.Version == 0 {
		r.Version = 1
	}
	s.roles[r.ID] = r
	return r
}

func (s *mockStore) addPerm(p *model.Permission) *model.Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.allocID()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	s.perms[p.ID] = p
	return p
}

func (s *mockStore) bindUserRole(userID, roleID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ur := &model.UserRole{UserID: userID, RoleID: roleID}
	ur.ID = s.allocID()
	ur.IsActive = true
	ur.Version = 1
	s.userRoles = append(s.userRoles, ur)
}

func (s *mockStore) bindRolePerm(roleID, permID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rp := &model.RolePermission{RoleID: roleID, PermissionID: permID}
	rp.ID = s.allocID()
	rp.IsActive = true
	rp.Version = 1
	s.rolePerms = append(s.rolePerms, rp)
}

// ── UserRepository ──

type mockUserRepo struct {
	s *mockStore
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user.ID = m.s.allocID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.s.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if !u.IsDeleted && u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if !u.IsDeleted && u.Phone == phone && phone != "" {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if !u.IsDeleted && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if !u.IsDeleted && u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) List(_ context.Context, keyword string, includeAll bool, offset, limit int) ([]model.User, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var all []model.User
	for _, u := range m.s.users {
		if !includeAll && u.IsDeleted {
			continue
		}
		if keyword != "" && !strings.Contains(u.Username, keyword) &&
			!strings.Contains(u.Phone, keyword) && !strings.Contains(u.Email, keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) UpdateWithVersion(_ context.Context, id uint64, version int, patch map[string]interface{}) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.IsDeleted {
		return pkgerrors.ErrNotFound
	}
	if u.Version != version {
		return pkgerrors.ErrConflict
	}
	for k, v := range patch {
		switch k {
		case "username":
			u.Username = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "email":
			u.Email = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		}
	}
	u.Version = version + 1
	u.UpdatedAt = time.Now()
	return nil
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.IsDeleted {
		return pkgerrors.ErrNotFound
	}
	now := time.Now()
	u.IsDeleted = true
	u.DeletedAt = &now
	u.Version++
	return nil
}

func (m *mockUserRepo) HardDelete(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.users, id)
	var kept []*model.UserRole
	for _, ur := range m.s.userRoles {
		if ur.UserID != id {
			kept = append(kept, ur)
		}
	}
	m.s.userRoles = kept
	return nil
}

func (m *mockUserRepo) BulkSoftDelete(_ context.Context, ids []uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var found []uint64
	now := time.Now()
	for _, id := range ids {
		if u, ok := m.s.users[id]; ok && !u.IsDeleted {
			u.IsDeleted = true
			u.DeletedAt = &now
			u.Version++
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *mockUserRepo) BulkDisable(_ context.Context, ids []uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var found []uint64
	for _, id := range ids {
		if u, ok := m.s.users[id]; ok && !u.IsDeleted {
			u.IsActive = false
			u.Version++
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *mockUserRepo) RecordLoginFailure(_ context.Context, id uint64, threshold int, lockUntil time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.IsDeleted {
		return nil
	}
	u.FailedAttempts++
	if u.FailedAttempts >= threshold {
		lu := lockUntil
		u.LockedUntil = &lu
	}
	return nil
}

func (m *mockUserRepo) ResetLoginFailure(_ context.Context, id uint64, loginAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.IsDeleted {
		return nil
	}
	u.FailedAttempts = 0
	u.LockedUntil = nil
	la := loginAt
	u.LastLoginAt = &la
	return nil
}

func (m *mockUserRepo) Unlock(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	u.FailedAttempts = 0
	u.LockedUntil = nil
	return nil
}

func (m *mockUserRepo) SetPassword(_ context.Context, id uint64, passwordHash string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	u.Version++
	return nil
}

// ── RoleRepository ──

type mockRoleRepo struct {
	s *mockStore
}

func (m *mockRoleRepo) Create(_ context.Context, role *model.Role) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	role.ID = m.s.allocID()
	m.s.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepo) GetByID(_ context.Context, id uint64) (*model.Role, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.roles[id]
	if !ok || r.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRoleRepo) GetByCode(_ context.Context, code string) (*model.Role, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.roles {
		if !r.IsDeleted && r.Code == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.roles {
		if !r.IsDeleted && r.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoleRepo) GetManyByIDs(_ context.Context, ids []uint64) ([]model.Role, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	// 与 SQL IN 一致：重复 id 只命中一行
	seen := make(map[uint64]struct{}, len(ids))
	var out []model.Role
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if r, ok := m.s.roles[id]; ok && !r.IsDeleted {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRoleRepo) List(_ context.Context, keyword string, includeAll bool, offset, limit int) ([]model.Role, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var all []model.Role
	for _, r := range m.s.roles {
		if !includeAll && r.IsDeleted {
			continue
		}
		if keyword != "" && !strings.Contains(r.Code, keyword) && !strings.Contains(r.Name, keyword) {
			continue
		}
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockRoleRepo) UpdateWithVersion(_ context.Context, id uint64, version int, patch map[string]interface{}) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.roles[id]
	if !ok || r.IsDeleted {
		return pkgerrors.ErrNotFound
	}
	if r.Version != version {
		return pkgerrors.ErrConflict
	}
	for k, v := range patch {
		switch k {
		case "name":
			r.Name = v.(string)
		case "description":
			r.Description = v.(string)
		case "is_active":
			r.IsActive = v.(bool)
		}
	}
	r.Version = version + 1
	return nil
}

func (m *mockRoleRepo) SoftDelete(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.roles[id]
	if !ok || r.IsDeleted {
		return pkgerrors.ErrNotFound
	}
	now := time.Now()
	r.IsDeleted = true
	r.DeletedAt = &now
	r.Version++
	return nil
}

func (m *mockRoleRepo) HardDelete(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.roles, id)
	var keptUR []*model.UserRole
	for _, ur := range m.s.userRoles {
		if ur.RoleID != id {
			keptUR = append(keptUR, ur)
		}
	}
	m.s.userRoles = keptUR
	var keptRP []*model.RolePermission
	for _, rp := range m.s.rolePerms {
		if rp.RoleID != id {
			keptRP = append(keptRP, rp)
		}
	}
	m.s.rolePerms = keptRP
	return nil
}

func (m *mockRoleRepo) BulkSoftDelete(_ context.Context, ids []uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var found []uint64
	now := time.Now()
	for _, id := range ids {
		if r, ok := m.s.roles[id]; ok && !r.IsDeleted {
			r.IsDeleted = true
			r.DeletedAt = &now
			r.Version++
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *mockRoleRepo) BulkDisable(_ context.Context, ids []uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var found []uint64
	for _, id := range ids {
		if r, ok := m.s.roles[id]; ok && !r.IsDeleted {
			r.IsActive = false
			r.Version++
			found = append(found, id)
		}
	}
	return found, nil
}

// ── PermissionRepository ──

type mockPermRepo struct {
	s *mockStore
}

func (m *mockPermRepo) Create(_ context.Context, perm *model.Permission) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	perm.ID = m.s.allocID()
	m.s.perms[perm.ID] = perm
	return nil
}

func (m *mockPermRepo) GetByID(_ context.Context, id uint64) (*model.Permission, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.perms[id]
	if !ok || p.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPermRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.perms {
		if !p.IsDeleted && p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPermRepo) GetManyByIDs(_ context.Context, ids []uint64) ([]model.Permission, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	// 与 SQL IN 一致：重复 id 只命中一行
	seen := make(map[uint64]struct{}, len(ids))
	var out []model.Permission
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := m.s.perms[id]; ok && !p.IsDeleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPermRepo) List(_ context.Context, keyword string, includeAll bool, offset, limit int) ([]model.Permission, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var all []model.Permission
	for _, p := range m.s.perms {
		if !includeAll && p.IsDeleted {
			continue
		}
		if keyword != "" && !strings.Contains(p.Code, keyword) && !strings.Contains(p.Name, keyword) {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockPermRepo) UpdateWithVersion(_ context.Context, id uint64, version int, patch map[string]interface{}) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.perms[id]
	if !ok || p.IsDeleted {
		return pkgerrors.ErrNotFound
	}
	if p.Version != version {
		return pkgerrors.ErrConflict
	}
	for k, v := range patch {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "is_active":
			p.IsActive = v.(bool)
		}
	}
	p.Version = version + 1
	return nil
}

func (m *mockPermRepo) SoftDelete(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.perms[id]
	if !ok || p.IsDeleted {
		return pkgerrors.ErrNotFound
	}
	now := time.Now()
	p.IsDeleted = true
	p.DeletedAt = &now
	p.Version++
	return nil
}

func (m *mockPermRepo) HardDelete(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.perms, id)
	return nil
}

func (m *mockPermRepo) BulkSoftDelete(_ context.Context, ids []uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var found []uint64
	now := time.Now()
	for _, id := range ids {
		if p, ok := m.s.perms[id]; ok && !p.IsDeleted {
			p.IsDeleted = true
			p.DeletedAt = &now
			p.Version++
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *mockPermRepo) BulkDisable(_ context.Context, ids []uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var found []uint64
	for _, id := range ids {
		if p, ok := m.s.perms[id]; ok && !p.IsDeleted {
			p.IsActive = false
			p.Version++
			found = append(found, id)
		}
	}
	return found, nil
}

// ListCodesForUser 复现存活绑定链路的并集语义：
// 用户→活跃绑定→活跃角色→活跃绑定→活跃权限
func (m *mockPermRepo) ListCodesForUser(_ context.Context, userID uint64) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	roleIDs := make(map[uint64]struct{})
	for _, ur := range m.s.userRoles {
		if ur.UserID != userID || ur.IsDeleted || !ur.IsActive {
			continue
		}
		if r, ok := m.s.roles[ur.RoleID]; ok && !r.IsDeleted && r.IsActive {
			roleIDs[ur.RoleID] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var codes []string
	for _, rp := range m.s.rolePerms {
		if rp.IsDeleted || !rp.IsActive {
			continue
		}
		if _, ok := roleIDs[rp.RoleID]; !ok {
			continue
		}
		p, ok := m.s.perms[rp.PermissionID]
		if !ok || p.IsDeleted || !p.IsActive {
			continue
		}
		if _, dup := seen[p.Code]; dup {
			continue
		}
		seen[p.Code] = struct{}{}
		codes = append(codes, p.Code)
	}
	return codes, nil
}

// ── UserRoleRepository ──

type mockUserRoleRepo struct {
	s *mockStore
}

func (m *mockUserRoleRepo) Bind(_ context.Context, userID uint64, roleIDs []uint64) (*repository.BindResult, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	result := &repository.BindResult{}
	seen := make(map[uint64]struct{})
	for _, roleID := range roleIDs {
		if _, dup := seen[roleID]; dup {
			continue
		}
		seen[roleID] = struct{}{}

		var existing *model.UserRole
		for _, ur := range m.s.userRoles {
			if ur.UserID == userID && ur.RoleID == roleID {
				existing = ur
				break
			}
		}
		switch {
		case existing == nil:
			ur := &model.UserRole{UserID: userID, RoleID: roleID}
			ur.ID = m.s.allocID()
			ur.IsActive = true
			ur.Version = 1
			m.s.userRoles = append(m.s.userRoles, ur)
			result.Added++
		case existing.IsDeleted:
			existing.IsDeleted = false
			existing.DeletedAt = nil
			existing.IsActive = true
			existing.Version++
			result.Restored++
		default:
			result.Existed++
		}
	}
	return result, nil
}

func (m *mockUserRoleRepo) Unbind(_ context.Context, userID uint64, roleIDs []uint64) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := make(map[uint64]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		want[id] = struct{}{}
	}
	removed := 0
	now := time.Now()
	for _, ur := range m.s.userRoles {
		if ur.UserID != userID || ur.IsDeleted {
			continue
		}
		if _, ok := want[ur.RoleID]; ok {
			ur.IsDeleted = true
			ur.DeletedAt = &now
			ur.Version++
			removed++
		}
	}
	return removed, nil
}

func (m *mockUserRoleRepo) ListRoleIDsOfUser(_ context.Context, userID uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []uint64
	for _, ur := range m.s.userRoles {
		if ur.UserID == userID && !ur.IsDeleted {
			ids = append(ids, ur.RoleID)
		}
	}
	return ids, nil
}

func (m *mockUserRoleRepo) ListRoleCodesOfUser(_ context.Context, userID uint64) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var codes []string
	for _, ur := range m.s.userRoles {
		if ur.UserID != userID || ur.IsDeleted || !ur.IsActive {
			continue
		}
		if r, ok := m.s.roles[ur.RoleID]; ok && !r.IsDeleted && r.IsActive {
			codes = append(codes, r.Code)
		}
	}
	return codes, nil
}

func (m *mockUserRoleRepo) ListUserIDsOfRole(_ context.Context, roleID uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []uint64
	for _, ur := range m.s.userRoles {
		if ur.RoleID == roleID && !ur.IsDeleted {
			ids = append(ids, ur.UserID)
		}
	}
	return ids, nil
}

// ── RolePermissionRepository ──

type mockRolePermRepo struct {
	s *mockStore
}

func (m *mockRolePermRepo) Bind(_ context.Context, roleID uint64, permissionIDs []uint64) (*repository.BindResult, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	result := &repository.BindResult{}
	seen := make(map[uint64]struct{})
	for _, permID := range permissionIDs {
		if _, dup := seen[permID]; dup {
			continue
		}
		seen[permID] = struct{}{}

		var existing *model.RolePermission
		for _, rp := range m.s.rolePerms {
			if rp.RoleID == roleID && rp.PermissionID == permID {
				existing = rp
				break
			}
		}
		switch {
		case existing == nil:
			rp := &model.RolePermission{RoleID: roleID, PermissionID: permID}
			rp.ID = m.s.allocID()
			rp.IsActive = true
			rp.Version = 1
			m.s.rolePerms = append(m.s.rolePerms, rp)
			result.Added++
		case existing.IsDeleted:
			existing.IsDeleted = false
			existing.DeletedAt = nil
			existing.IsActive = true
			existing.Version++
			result.Restored++
		default:
			result.Existed++
		}
	}
	return result, nil
}

func (m *mockRolePermRepo) Unbind(_ context.Context, roleID uint64, permissionIDs []uint64) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := make(map[uint64]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		want[id] = struct{}{}
	}
	removed := 0
	now := time.Now()
	for _, rp := range m.s.rolePerms {
		if rp.RoleID != roleID || rp.IsDeleted {
			continue
		}
		if _, ok := want[rp.PermissionID]; ok {
			rp.IsDeleted = true
			rp.DeletedAt = &now
			rp.Version++
			removed++
		}
	}
	return removed, nil
}

func (m *mockRolePermRepo) ListPermissionIDsOfRole(_ context.Context, roleID uint64) ([]uint64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []uint64
	for _, rp := range m.s.rolePerms {
		if rp.RoleID == roleID && !rp.IsDeleted {
			ids = append(ids, rp.PermissionID)
		}
	}
	return ids, nil
}

// ── SystemConfigRepository ──

type mockSystemConfigRepo struct {
	s *mockStore
}

func (m *mockSystemConfigRepo) Get(_ context.Context) (*model.SystemConfig, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.sysConfig == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.s.sysConfig
	return &cp, nil
}

func (m *mockSystemConfigRepo) UpdateWithVersion(_ context.Context, version int, patch map[string]interface{}) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sc := m.s.sysConfig
	if sc == nil {
		return pkgerrors.ErrNotFound
	}
	if sc.Version != version {
		return pkgerrors.ErrConflict
	}
	for k, v := range patch {
		switch k {
		case "project_name":
			sc.ProjectName = v.(string)
		case "project_description":
			sc.ProjectDescription = v.(string)
		case "project_url":
			sc.ProjectURL = v.(string)
		case "default_page_size":
			sc.DefaultPageSize = v.(int)
		case "password_min_length":
			sc.PasswordMinLength = v.(int)
		case "password_require_uppercase":
			sc.PasswordRequireUppercase = v.(bool)
		case "password_require_lowercase":
			sc.PasswordRequireLowercase = v.(bool)
		case "password_require_digits":
			sc.PasswordRequireDigits = v.(bool)
		case "password_require_special":
			sc.PasswordRequireSpecial = v.(bool)
		case "password_expire_days":
			sc.PasswordExpireDays = v.(int)
		case "login_max_failed_attempts":
			sc.LoginMaxFailedAttempts = v.(int)
		case "login_lock_minutes":
			sc.LoginLockMinutes = v.(int)
		case "session_timeout_hours":
			sc.SessionTimeoutHours = v.(int)
		case "force_https":
			sc.ForceHTTPS = v.(bool)
		}
	}
	sc.Version = version + 1
	return nil
}

// ── AuditLogRepository ──

type mockAuditLogRepo struct {
	s *mockStore
}

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failAuditCreate {
		return gorm.ErrInvalidDB
	}
	cp := *entry
	cp.ID = m.s.allocID()
	m.s.logs = append(m.s.logs, &cp)
	return nil
}

func (m *mockAuditLogRepo) List(_ context.Context, filter repository.AuditLogFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var all []model.AuditLog
	for _, e := range m.s.logs {
		if filter.ActorID != nil && e.ActorID != *filter.ActorID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.TraceID != "" && e.TraceID != filter.TraceID {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && !e.CreatedAt.Before(*filter.Until) {
			continue
		}
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// auditCount 当前已落库的审计条数
func (s *mockStore) auditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

// [自证通过] internal/service/mock_repos_test.go
