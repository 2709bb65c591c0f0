package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

const (
	MinSessionDuration = 15
	MaxSessionDuration = 480
)

type CatalogService struct {
	catalogRepo CatalogStore
	horizonDays int
	logger      *zap.Logger
}

// NewCatalogService создаёт сервис каталога. horizonDays - горизонт записи, 0 - без ограничения.
func NewCatalogService(catalogRepo CatalogStore, horizonDays int, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		horizonDays: horizonDays,
		logger:      logger,
	}
}

// CreateCategory создаёт категорию услуг
func (s *CatalogService) CreateCategory(ctx context.Context, actor *model.User, name, description string) (*model.Category, error) {
	if actor == nil || !actor.Role.CanManage() {
		return nil, ErrForbidden
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is empty", ErrInvalidPackage)
	}

	c := &model.Category{Name: name, Description: strings.TrimSpace(description), IsActive: true}
	if err := s.catalogRepo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("Category created", zap.Int64("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// ListCategories возвращает категории
func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	return s.catalogRepo.ListCategories(ctx, activeOnly)
}

// GetCategory возвращает категорию
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := s.catalogRepo.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// ToggleCategory скрывает или возвращает категорию
func (s *CatalogService) ToggleCategory(ctx context.Context, actor *model.User, id int64) (*model.Category, error) {
	if actor == nil || !actor.Role.CanManage() {
		return nil, ErrForbidden
	}

	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	c.IsActive = !c.IsActive
	if err := s.catalogRepo.SetCategoryActive(ctx, id, c.IsActive); err != nil {
		return nil, fmt.Errorf("toggle category: %w", err)
	}

	s.logger.Info("Category toggled", zap.Int64("category_id", id), zap.Bool("active", c.IsActive))
	return c, nil
}

// ValidatePackage проверяет параметры пакета услуг
func ValidatePackage(p *model.ServicePackage) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidPackage)
	case p.ComboDays < 1:
		return fmt.Errorf("%w: package needs at least one session", ErrInvalidPackage)
	case p.TimeInterval < 0:
		return fmt.Errorf("%w: interval cannot be negative", ErrInvalidPackage)
	case p.SessionDuration < MinSessionDuration || p.SessionDuration > MaxSessionDuration:
		return fmt.Errorf("%w: session duration must be %d-%d minutes", ErrInvalidPackage, MinSessionDuration, MaxSessionDuration)
	case p.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidPackage)
	}
	return nil
}

// CheckSeries проверяет, что серия визитов пакета помещается в горизонт записи
func (s *CatalogService) CheckSeries(p *model.ServicePackage) error {
	plan := scheduling.Plan{ComboDays: p.ComboDays, TimeInterval: p.TimeInterval}
	if s.horizonDays > 0 && plan.SpanDays() > s.horizonDays {
		return fmt.Errorf("%w: series spans %d days, horizon is %d", ErrPackageTooLong, plan.SpanDays(), s.horizonDays)
	}
	return nil
}

// HorizonDays горизонт записи в днях
func (s *CatalogService) HorizonDays() int {
	return s.horizonDays
}

// CreatePackage создаёт пакет услуг в категории
func (s *CatalogService) CreatePackage(ctx context.Context, actor *model.User, p *model.ServicePackage) error {
	if actor == nil || !actor.Role.CanManage() {
		return ErrForbidden
	}

	p.Name = strings.TrimSpace(p.Name)
	if err := ValidatePackage(p); err != nil {
		return err
	}
	if err := s.CheckSeries(p); err != nil {
		return err
	}
	if _, err := s.GetCategory(ctx, p.CategoryID); err != nil {
		return err
	}

	p.IsActive = true
	if err := s.catalogRepo.CreatePackage(ctx, p); err != nil {
		return fmt.Errorf("create package: %w", err)
	}

	s.logger.Info("Package created",
		zap.Int64("package_id", p.ID),
		zap.Int64("category_id", p.CategoryID),
		zap.Int("combo_days", p.ComboDays),
		zap.Int("time_interval", p.TimeInterval),
	)
	return nil
}

// ListPackages возвращает пакеты категории
func (s *CatalogService) ListPackages(ctx context.Context, categoryID int64, activeOnly bool) ([]*model.ServicePackage, error) {
	return s.catalogRepo.ListPackages(ctx, categoryID, activeOnly)
}

// GetPackage возвращает пакет
func (s *CatalogService) GetPackage(ctx context.Context, id int64) (*model.ServicePackage, error) {
	p, err := s.catalogRepo.GetPackage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}
	return p, nil
}

// TogglePackage скрывает или возвращает пакет
func (s *CatalogService) TogglePackage(ctx context.Context, actor *model.User, id int64) (*model.ServicePackage, error) {
	if actor == nil || !actor.Role.CanManage() {
		return nil, ErrForbidden
	}

	p, err := s.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	p.IsActive = !p.IsActive
	if err := s.catalogRepo.SetPackageActive(ctx, id, p.IsActive); err != nil {
		return nil, fmt.Errorf("toggle package: %w", err)
	}

	s.logger.Info("Package toggled", zap.Int64("package_id", id), zap.Bool("active", p.IsActive))
	return p, nil
}
