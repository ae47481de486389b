package service

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/model"
	"backoffice/internal/permission"
	"backoffice/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedService installs the permission catalogue, the built-in roles and
// the bootstrap super-admin account. Safe to run on every boot.
type SeedService interface {
	Seed(ctx context.Context) error
}

type seedService struct {
	roles repository.RoleRepository
	users repository.UserRepository
	tx    repository.TransactionManager
}

func NewSeedService(roles repository.RoleRepository, users repository.UserRepository, tx repository.TransactionManager) SeedService {
	return &seedService{roles: roles, users: users, tx: tx}
}

// roleDefinition describes one built-in role and its permission keys.
type roleDefinition struct {
	name        string
	slug        string
	description string
	isDefault   bool
	keys        []permission.Key
}

func builtinRoles() []roleDefinition {
	return []roleDefinition{
		{
			name:        "Super Admin",
			slug:        model.SuperAdminSlug,
			description: "Full access to all system features",
			// Bypasses permission checks entirely; holds no explicit permissions.
		},
		{
			name:        "Admin",
			slug:        "admin",
			description: "Administrative access with all permissions",
			keys:        permission.All(),
		},
		{
			name:        "Editor",
			slug:        "editor",
			description: "Can view and edit content",
			keys: []permission.Key{
				permission.UsersRead, permission.UsersWrite,
				permission.RolesRead, permission.RolesWrite,
				permission.ActivityLogsRead, permission.ActivityLogsWrite,
			},
		},
		{
			name:        "Viewer",
			slug:        "viewer",
			description: "Read-only access to view content",
			isDefault:   true,
			keys: []permission.Key{
				permission.UsersRead,
				permission.RolesRead,
				permission.ActivityLogsRead,
			},
		},
	}
}

func (s *seedService) Seed(ctx context.Context) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.seedPermissions(txCtx); err != nil {
			return err
		}
		if err := s.seedRoles(txCtx); err != nil {
			return err
		}
		return s.seedBootstrapUser(txCtx)
	})
}

// seedPermissions upserts one row per catalogue key.
func (s *seedService) seedPermissions(ctx context.Context) error {
	for _, key := range permission.All() {
		perm := &model.Permission{
			Name:        string(key),
			Group:       key.Group(),
			Description: key.Label(),
		}
		if err := s.roles.FindOrCreatePermission(ctx, perm); err != nil {
			return fmt.Errorf("failed to seed permission %q: %w", key, err)
		}
	}
	return nil
}

func (s *seedService) seedRoles(ctx context.Context) error {
	for _, def := range builtinRoles() {
		role, err := s.roles.FindBySlug(ctx, def.slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = &model.Role{
				Name:        def.name,
				Slug:        def.slug,
				Description: def.description,
				IsDefault:   def.isDefault,
			}
			if err := s.roles.Create(ctx, role); err != nil {
				return fmt.Errorf("failed to seed role %q: %w", def.slug, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up role %q: %w", def.slug, err)
		}

		if len(def.keys) == 0 {
			continue
		}
		names := make([]string, 0, len(def.keys))
		for _, k := range def.keys {
			names = append(names, string(k))
		}
		perms, err := s.roles.FindPermissionsByNames(ctx, names)
		if err != nil {
			return fmt.Errorf("failed to fetch permissions for role %q: %w", def.slug, err)
		}
		if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
			return fmt.Errorf("failed to assign permissions to role %q: %w", def.slug, err)
		}
	}
	return nil
}

// seedBootstrapUser creates the initial super-admin account when the
// user table is empty, so a fresh install can be signed into.
func (s *seedService) seedBootstrapUser(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	superAdmin, err := s.roles.FindBySlug(ctx, model.SuperAdminSlug)
	if err != nil {
		return fmt.Errorf("failed to fetch super-admin role: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	roleID := superAdmin.ID
	return s.users.Create(ctx, &model.User{
		Name:     "Admin User",
		Email:    "admin@example.com",
		Password: string(hashed),
		Status:   model.StatusActive,
		RoleID:   &roleID,
	})
}
