package service

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/apperrors"
	"backoffice/internal/audit"
	"backoffice/internal/authz"
	"backoffice/internal/model"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
	"backoffice/internal/requestctx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name         string         `json:"name" binding:"required"`
	Slug         string         `json:"slug" binding:"required"`
	Description  string         `json:"description"`
	IsDefault    bool           `json:"is_default"`
	AccessLevels map[string]int `json:"access_levels"` // Optional group -> level, applied after create
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default"`
}

type SyncPermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
}

type SyncAccessLevelsRequest struct {
	AccessLevels map[string]int `json:"access_levels" binding:"required"`
}

type PermissionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Label       string `json:"label"`
	AccessLevel int    `json:"access_level"`
}

type RoleResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description"`
	IsDefault    bool                 `json:"is_default"`
	IsSuperAdmin bool                 `json:"is_super_admin"`
	Permissions  []PermissionResponse `json:"permissions"`
	AccessLevels map[string]int       `json:"access_levels"`
	UserCount    int64                `json:"user_count"`
	CreatedAt    string               `json:"created_at"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error
	SyncPermissions(ctx context.Context, roleID string, permissionIDs []string) (*RoleResponse, error)
	SyncAccessLevels(ctx context.Context, roleID string, levels map[string]int) (*RoleResponse, error)
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
}

type roleService struct {
	roles  repository.RoleRepository
	users  repository.UserRepository
	tx     repository.TransactionManager
	hooks  *audit.EntityHooks
	policy authz.RolePolicy
}

func NewRoleService(roles repository.RoleRepository, users repository.UserRepository, tx repository.TransactionManager, recorder *audit.Recorder) RoleService {
	return &roleService{
		roles: roles,
		users: users,
		tx:    tx,
		hooks: audit.NewEntityHooks(audit.SubjectRole, "role", recorder),
	}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.ViewAny(actor) {
		return nil, apperrors.Conflict("not allowed to view roles")
	}

	roles, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		userCount, err := s.users.CountByRole(ctx, roles[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count users for role %q: %w", roles[i].Slug, err)
		}
		res = append(res, toRoleResponse(&roles[i], userCount))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, role)
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.Create(actor) {
		return nil, apperrors.Conflict("not allowed to create roles")
	}

	if err := s.checkUnique(ctx, req.Name, req.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	role := &model.Role{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsDefault:   req.IsDefault,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roles.Create(txCtx, role); err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
		if len(req.AccessLevels) > 0 {
			perms, err := s.resolveLevels(txCtx, req.AccessLevels)
			if err != nil {
				return err
			}
			if err := s.roles.ReplacePermissions(txCtx, role, perms); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hooks.Created(ctx, role.ID, role.Name)

	return s.GetRole(ctx, role.ID.String())
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkMutate(ctx, role); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, req.Name, req.Slug, role.ID); err != nil {
		return nil, err
	}

	before := roleSnapshot(role)
	role.Name = req.Name
	role.Slug = req.Slug
	role.Description = req.Description
	role.IsDefault = req.IsDefault

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.hooks.Updated(ctx, role.ID, role.Name, before, roleSnapshot(role))

	return s.GetRole(ctx, id)
}

func (s *roleService) DeleteRole(ctx context.Context, id string) error {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return err
	}

	if role.IsSuperAdmin() {
		return apperrors.Conflict("the super-admin role cannot be deleted")
	}

	userCount, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return fmt.Errorf("failed to count role users: %w", err)
	}
	if userCount > 0 {
		return apperrors.Conflict("role %q still has %d assigned users", role.Name, userCount)
	}

	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.Delete(actor, role, userCount) {
		return apperrors.Conflict("not allowed to delete roles")
	}

	if err := s.roles.Delete(ctx, role.ID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.hooks.Deleted(ctx, role.ID, role.Name)
	return nil
}

// SyncPermissions idempotently replaces the role's full permission set.
// IDs outside the persisted catalogue are rejected rather than dropped.
func (s *roleService) SyncPermissions(ctx context.Context, roleID string, permissionIDs []string) (*RoleResponse, error) {
	role, err := s.findRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.checkMutate(ctx, role); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(permissionIDs))
	seen := make(map[uuid.UUID]bool, len(permissionIDs))
	for _, raw := range permissionIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return nil, apperrors.Integrity("invalid permission id %q", raw)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	perms, err := s.roles.FindPermissionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	if len(perms) != len(ids) {
		return nil, apperrors.Integrity("%d of %d permission ids are unknown", len(ids)-len(perms), len(ids))
	}
	for i := range perms {
		if !permission.Valid(perms[i].Key()) {
			return nil, apperrors.Integrity("permission %q is outside the catalogue", perms[i].Name)
		}
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.roles.ReplacePermissions(txCtx, role, perms)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync permissions: %w", err)
	}

	return s.GetRole(ctx, roleID)
}

// SyncAccessLevels resolves each group's level through the catalogue and
// fully resynchronizes the role's permission set with the result.
func (s *roleService) SyncAccessLevels(ctx context.Context, roleID string, levels map[string]int) (*RoleResponse, error) {
	role, err := s.findRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.checkMutate(ctx, role); err != nil {
		return nil, err
	}

	perms, err := s.resolveLevels(ctx, levels)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.roles.ReplacePermissions(txCtx, role, perms)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync permissions: %w", err)
	}

	return s.GetRole(ctx, roleID)
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for i := range perms {
		res = append(res, toPermissionResponse(&perms[i]))
	}
	return res, nil
}

// --- Helpers ---

// checkMutate routes role mutations through the policy when a principal
// is present. Calls without one (seeding, maintenance jobs) skip the
// permission check but never touch the super-admin role.
func (s *roleService) checkMutate(ctx context.Context, role *model.Role) error {
	actor := requestctx.Actor(ctx)
	if actor == nil {
		if role.IsSuperAdmin() {
			return apperrors.Conflict("only a super-admin may modify the super-admin role")
		}
		return nil
	}
	if s.policy.Update(actor, role) {
		return nil
	}
	if role.IsSuperAdmin() {
		return apperrors.Conflict("only a super-admin may modify the super-admin role")
	}
	return apperrors.Conflict("not allowed to modify roles")
}

func (s *roleService) findRole(ctx context.Context, id string) (*model.Role, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Validation("id", "invalid role id")
	}
	role, err := s.roles.FindByIDWithPermissions(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}
	return role, nil
}

func (s *roleService) respond(ctx context.Context, role *model.Role) (*RoleResponse, error) {
	userCount, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count role users: %w", err)
	}
	resp := toRoleResponse(role, userCount)
	return &resp, nil
}

func (s *roleService) checkUnique(ctx context.Context, name, slug string, selfID uuid.UUID) error {
	if existing, err := s.roles.FindByName(ctx, name); err == nil && existing.ID != selfID {
		return apperrors.Validation("name", "a role with this name already exists")
	}
	if existing, err := s.roles.FindBySlug(ctx, slug); err == nil && existing.ID != selfID {
		return apperrors.Validation("slug", "a role with this slug already exists")
	}
	return nil
}

// resolveLevels expands an access-level map to persisted permission rows.
func (s *roleService) resolveLevels(ctx context.Context, levels map[string]int) ([]model.Permission, error) {
	keys := permission.LevelsToKeys(levels)
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	perms, err := s.roles.FindPermissionsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	if len(perms) != len(names) {
		return nil, apperrors.Integrity("catalogue permissions missing from store: have %d, want %d", len(perms), len(names))
	}
	return perms, nil
}

func roleSnapshot(r *model.Role) map[string]any {
	return map[string]any{
		"name":        r.Name,
		"slug":        r.Slug,
		"description": r.Description,
		"is_default":  r.IsDefault,
	}
}

func toRoleResponse(r *model.Role, userCount int64) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for i := range r.Permissions {
		perms = append(perms, toPermissionResponse(&r.Permissions[i]))
	}

	return RoleResponse{
		ID:           r.ID.String(),
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		IsDefault:    r.IsDefault,
		IsSuperAdmin: r.IsSuperAdmin(),
		Permissions:  perms,
		AccessLevels: permission.KeysToLevels(r.PermissionKeys()),
		UserCount:    userCount,
		CreatedAt:    r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toPermissionResponse(p *model.Permission) PermissionResponse {
	key := p.Key()
	return PermissionResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Group:       key.Group(),
		Label:       key.Label(),
		AccessLevel: key.AccessLevel(),
	}
}
