package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"backoffice/internal/model"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
)

// In-memory repository fakes backing the service tests. They mirror the
// gorm implementations' behavior, including gorm.ErrRecordNotFound on
// misses, so services exercise the same error paths as in production.

// --- roles ---

type fakeRoleRepo struct {
	roles     map[uuid.UUID]*model.Role
	roleOrder []uuid.UUID
	perms     map[string]*model.Permission
	rolePerms map[uuid.UUID][]model.Permission
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		roles:     make(map[uuid.UUID]*model.Role),
		perms:     make(map[string]*model.Permission),
		rolePerms: make(map[uuid.UUID][]model.Permission),
	}
}

// seedCatalogue persists one permission row per catalogue key, the way
// the seeder does on boot.
func (f *fakeRoleRepo) seedCatalogue() {
	for _, k := range permission.All() {
		f.perms[string(k)] = &model.Permission{
			ID:    uuid.New(),
			Name:  string(k),
			Group: k.Group(),
		}
	}
}

func (f *fakeRoleRepo) clone(r *model.Role) *model.Role {
	c := *r
	c.Permissions = append([]model.Permission(nil), f.rolePerms[r.ID]...)
	return &c
}

func (f *fakeRoleRepo) Create(_ context.Context, role *model.Role) error {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	role.CreatedAt = time.Now()
	stored := *role
	f.roles[role.ID] = &stored
	f.roleOrder = append(f.roleOrder, role.ID)
	return nil
}

func (f *fakeRoleRepo) Update(_ context.Context, role *model.Role) error {
	if _, ok := f.roles[role.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *role
	stored.Permissions = nil
	f.roles[role.ID] = &stored
	return nil
}

func (f *fakeRoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.roles, id)
	delete(f.rolePerms, id)
	return nil
}

func (f *fakeRoleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *role
	return &c, nil
}

func (f *fakeRoleRepo) FindByIDWithPermissions(_ context.Context, id uuid.UUID) (*model.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.clone(role), nil
}

func (f *fakeRoleRepo) FindBySlug(_ context.Context, slug string) (*model.Role, error) {
	for _, role := range f.roles {
		if role.Slug == slug {
			return f.clone(role), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) FindByName(_ context.Context, name string) (*model.Role, error) {
	for _, role := range f.roles {
		if role.Name == name {
			return f.clone(role), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) FindDefault(_ context.Context) (*model.Role, error) {
	for _, id := range f.roleOrder {
		if role, ok := f.roles[id]; ok && role.IsDefault {
			return f.clone(role), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) ListAll(_ context.Context) ([]model.Role, error) {
	roles := make([]model.Role, 0, len(f.roles))
	for _, id := range f.roleOrder {
		if role, ok := f.roles[id]; ok {
			roles = append(roles, *f.clone(role))
		}
	}
	return roles, nil
}

func (f *fakeRoleRepo) ListPermissions(_ context.Context) ([]model.Permission, error) {
	perms := make([]model.Permission, 0, len(f.perms))
	for _, p := range f.perms {
		perms = append(perms, *p)
	}
	sort.Slice(perms, func(i, j int) bool {
		if perms[i].Group != perms[j].Group {
			return perms[i].Group < perms[j].Group
		}
		return perms[i].Name < perms[j].Name
	})
	return perms, nil
}

func (f *fakeRoleRepo) FindPermissionsByIDs(_ context.Context, ids []uuid.UUID) ([]model.Permission, error) {
	var perms []model.Permission
	for _, id := range ids {
		for _, p := range f.perms {
			if p.ID == id {
				perms = append(perms, *p)
			}
		}
	}
	return perms, nil
}

func (f *fakeRoleRepo) FindPermissionsByNames(_ context.Context, names []string) ([]model.Permission, error) {
	var perms []model.Permission
	for _, name := range names {
		if p, ok := f.perms[name]; ok {
			perms = append(perms, *p)
		}
	}
	return perms, nil
}

func (f *fakeRoleRepo) FindOrCreatePermission(_ context.Context, perm *model.Permission) error {
	if existing, ok := f.perms[perm.Name]; ok {
		*perm = *existing
		return nil
	}
	if perm.ID == uuid.Nil {
		perm.ID = uuid.New()
	}
	stored := *perm
	f.perms[perm.Name] = &stored
	return nil
}

func (f *fakeRoleRepo) ReplacePermissions(_ context.Context, role *model.Role, perms []model.Permission) error {
	f.rolePerms[role.ID] = append([]model.Permission(nil), perms...)
	role.Permissions = append([]model.Permission(nil), perms...)
	return nil
}

// --- users ---

type fakeUserRepo struct {
	users     map[uuid.UUID]*model.User
	userOrder []uuid.UUID
	roles     *fakeRoleRepo
}

func newFakeUserRepo(roles *fakeRoleRepo) *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User), roles: roles}
}

// withRole attaches the loaded role, mimicking the Role.Permissions
// preload.
func (f *fakeUserRepo) withRole(u *model.User) *model.User {
	c := *u
	if c.RoleID != nil {
		if role, ok := f.roles.roles[*c.RoleID]; ok {
			c.Role = f.roles.clone(role)
		}
	}
	return &c
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	stored.Role = nil
	f.users[user.ID] = &stored
	f.userOrder = append(f.userOrder, user.ID)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.withRole(user), nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return f.withRole(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	all := make([]model.User, 0, len(f.users))
	for _, id := range f.userOrder {
		if user, ok := f.users[id]; ok {
			all = append(all, *f.withRole(user))
		}
	}
	total := int64(len(all))

	offset := (page - 1) * limit
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	stored := *user
	stored.Role = nil
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.RoleID != nil && *user.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

// --- activity logs ---

type fakeActivityRepo struct {
	entries []*model.ActivityLog
}

func (f *fakeActivityRepo) Create(_ context.Context, entry *model.ActivityLog) error {
	entry.ID = uuid.New()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivityRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ActivityLog, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeActivityRepo) List(_ context.Context, filter repository.ActivityFilter, page, limit int) ([]model.ActivityLog, int64, error) {
	var matched []model.ActivityLog
	for _, e := range f.entries {
		if filter.Event != "" && string(e.Event) != filter.Event {
			continue
		}
		if filter.SubjectType != "" && e.SubjectType != filter.SubjectType {
			continue
		}
		if filter.SubjectID != nil && (e.SubjectID == nil || *e.SubjectID != *filter.SubjectID) {
			continue
		}
		if filter.UserID != nil && (e.UserID == nil || *e.UserID != *filter.UserID) {
			continue
		}
		matched = append(matched, *e)
	}
	total := int64(len(matched))

	offset := (page - 1) * limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeActivityRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeActivityRepo) CountByEvent(_ context.Context, from, to time.Time) (map[model.ActivityEvent]int64, error) {
	counts := make(map[model.ActivityEvent]int64)
	for _, e := range f.entries {
		if !from.IsZero() && e.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !e.CreatedAt.Before(to) {
			continue
		}
		counts[e.Event]++
	}
	return counts, nil
}

// byEvent filters recorded entries by event kind.
func (f *fakeActivityRepo) byEvent(event model.ActivityEvent) []*model.ActivityLog {
	var matched []*model.ActivityLog
	for _, e := range f.entries {
		if e.Event == event {
			matched = append(matched, e)
		}
	}
	return matched
}

// --- refresh tokens ---

type fakeTokenRepo struct {
	tokens map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, token *model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	stored := *token
	f.tokens[token.Token] = &stored
	return nil
}

func (f *fakeTokenRepo) FindByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *stored
	return &c, nil
}

func (f *fakeTokenRepo) Delete(_ context.Context, id uuid.UUID) error {
	for key, stored := range f.tokens {
		if stored.ID == id {
			delete(f.tokens, key)
		}
	}
	return nil
}

func (f *fakeTokenRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for key, stored := range f.tokens {
		if stored.UserID == userID {
			delete(f.tokens, key)
		}
	}
	return nil
}

// --- transactions ---

// fakeTxManager runs the callback directly; the fakes have no
// transactional semantics to enforce.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
