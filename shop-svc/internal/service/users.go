package service

import (
	"context"
	"fmt"
	"strings"

	"sivik-storefront/shop-svc/internal/auth"
	"sivik-storefront/shop-svc/internal/domain"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// Create stores a new account. Only an admin actor may create another admin.
func (s *UserService) Create(ctx context.Context, actor *auth.Principal, req domain.CreateUserRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkRoleGrant(actor, req.Role); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		Capabilities: req.Capabilities,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor *auth.Principal, id int, patch domain.UserPatch) (*domain.User, error) {
	if patch.Username != nil {
		name := strings.TrimSpace(*patch.Username)
		if name == "" {
			return nil, domain.NewValidationError("username", "must not be empty")
		}
		patch.Username = &name
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, domain.NewValidationError("role", "must be one of: admin write read_only")
		}
		if err := checkRoleGrant(actor, *patch.Role); err != nil {
			return nil, err
		}
	}

	var hash *string
	if patch.Password != nil {
		if len(*patch.Password) < 6 {
			return nil, domain.NewValidationError("password", "must be at least 6 characters")
		}
		h, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = &h
	}

	return s.repo.UpdateUser(ctx, id, patch, hash)
}

// checkRoleGrant keeps the manage-users flag from minting admins.
func checkRoleGrant(actor *auth.Principal, role domain.Role) error {
	if role == domain.RoleAdmin && (actor == nil || actor.Role != domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	return nil
}

// Delete refuses to remove the account the actor is signed in with.
func (s *UserService) Delete(ctx context.Context, actor *auth.Principal, id int) error {
	if actor != nil && actor.UserID == id {
		return domain.NewValidationError("id", "you cannot delete your own account")
	}
	n, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
