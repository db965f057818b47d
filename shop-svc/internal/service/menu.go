package service

import (
	"context"
	"strings"

	"sivik-storefront/shop-svc/internal/domain"
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

// ListPublic hides disabled items from customers.
func (s *MenuService) ListPublic(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, true)
}

func (s *MenuService) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, false)
}

func (s *MenuService) Create(ctx context.Context, req domain.MenuItemRequest) (*domain.MenuItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	item := &domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Calories:    req.Calories,
		Category:    req.Category,
		Price:       req.Price,
		IsEnabled:   req.IsEnabled == nil || *req.IsEnabled,
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, id int, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	if patch.Empty() {
		return nil, domain.NewValidationError("", "no fields to update")
	}
	patch.Name = trimmed(patch.Name)
	patch.Category = trimmed(patch.Category)
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	return s.repo.UpdateMenuItem(ctx, id, patch)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (s *MenuService) Delete(ctx context.Context, id int) error {
	n, err := s.repo.DeleteMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
