package service

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/apperrors"
	"backoffice/internal/audit"
	"backoffice/internal/authz"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/requestctx"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Avatar   string `json:"avatar"`
	Status   string `json:"status"`
	RoleID   string `json:"role_id"`
}

type UpdateUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email" binding:"omitempty,email"`
	Password string  `json:"password" binding:"omitempty,min=8"`
	Avatar   *string `json:"avatar"`
	Status   string  `json:"status"`
	RoleID   *string `json:"role_id"` // Pointer so "" can clear the role
}

type UserResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Avatar    string        `json:"avatar,omitempty"`
	Status    string        `json:"status"`
	RoleID    string        `json:"role_id,omitempty"`
	Role      *RoleResponse `json:"role,omitempty"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// --- Interface ---

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tokens repository.TokenRepository
	hooks  *audit.EntityHooks
	policy authz.UserPolicy
}

// NewUserService returns a new instance of UserService
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, tokens repository.TokenRepository, recorder *audit.Recorder) UserService {
	return &userService{
		users:  users,
		roles:  roles,
		tokens: tokens,
		hooks:  audit.NewEntityHooks(audit.SubjectUser, "user", recorder),
	}
}

// --- Implementation ---

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.Create(actor) {
		return nil, apperrors.Conflict("not allowed to create users")
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Validation("email", "a user with this email already exists")
	}

	status := model.StatusActive
	if req.Status != "" {
		status = model.UserStatus(req.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("status", "status must be active, inactive or suspended")
		}
	}

	roleID, err := s.resolveRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   req.Avatar,
		Status:   status,
		RoleID:   roleID,
	}

	// Blame stamping: created_by is set once and never overwritten.
	if actor := requestctx.Actor(ctx); actor != nil {
		id := actor.ID
		user.CreatedBy = &id
		user.UpdatedBy = &id
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.hooks.Created(ctx, user.ID, user.Name)

	return s.GetUser(ctx, user.ID.String())
}

func (s *userService) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.View(actor, user) {
		return nil, apperrors.Conflict("not allowed to view this user")
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.ViewAny(actor) {
		return nil, 0, apperrors.Conflict("not allowed to view users")
	}

	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, toUserResponse(&users[i]))
	}
	return res, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	actor := requestctx.Actor(ctx)
	if actor != nil && !s.policy.Update(actor, user) {
		return nil, apperrors.Conflict("only a super-admin may modify a super-admin user")
	}

	before := userSnapshot(user)
	wasActive := user.Status == model.StatusActive

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperrors.Validation("email", "a user with this email already exists")
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.Password = string(hashed)
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Status != "" {
		status := model.UserStatus(req.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("status", "status must be active, inactive or suspended")
		}
		user.Status = status
	}
	if req.RoleID != nil {
		if *req.RoleID == "" {
			user.RoleID = nil
		} else {
			roleID, roleErr := s.resolveRole(ctx, *req.RoleID)
			if roleErr != nil {
				return nil, roleErr
			}
			user.RoleID = roleID
		}
	}

	if actor != nil {
		actorID := actor.ID
		user.UpdatedBy = &actorID
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// A user taken out of active status must not keep refreshing
	// sessions; access tokens expire on their own.
	if wasActive && user.Status != model.StatusActive {
		if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
	}

	s.hooks.Updated(ctx, user.ID, user.Name, before, userSnapshot(user))

	return s.GetUser(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	actor := requestctx.Actor(ctx)
	if actor != nil {
		if actor.ID == user.ID {
			return apperrors.Conflict("you cannot delete your own account")
		}
		if !s.policy.Delete(actor, user) {
			return apperrors.Conflict("not allowed to delete this user")
		}
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	s.hooks.Deleted(ctx, user.ID, user.Name)
	return nil
}

// --- Helpers ---

func (s *userService) findUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Validation("id", "invalid user id")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// resolveRole maps a request role id to a persisted role, falling back
// to the default role when none is given.
func (s *userService) resolveRole(ctx context.Context, raw string) (*uuid.UUID, error) {
	if raw == "" {
		role, err := s.roles.FindDefault(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch default role: %w", err)
		}
		id := role.ID
		return &id, nil
	}

	roleID, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Validation("role_id", "invalid role id")
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("role_id", "role does not exist")
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}
	return &roleID, nil
}

// userSnapshot captures the auditable attributes for diffing. Passwords
// enter the snapshot hashed and are redacted by the diff either way.
func userSnapshot(u *model.User) map[string]any {
	roleID := ""
	if u.RoleID != nil {
		roleID = u.RoleID.String()
	}
	return map[string]any{
		"name":     u.Name,
		"email":    u.Email,
		"password": u.Password,
		"avatar":   u.Avatar,
		"status":   string(u.Status),
		"role_id":  roleID,
	}
}

func toUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: u.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if u.RoleID != nil {
		resp.RoleID = u.RoleID.String()
	}
	if u.Role != nil {
		role := toRoleResponse(u.Role, 0)
		resp.Role = &role
	}
	return resp
}
