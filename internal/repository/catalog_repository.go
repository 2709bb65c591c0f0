package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/repository/base"
)

// CatalogRepository категории и пакеты услуг
type CatalogRepository struct {
	*base.Repository
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{Repository: base.NewRepository(pool)}
}

const packageColumns = `id, category_id, name, description, price, session_duration, combo_days, time_interval, is_active, created_at`

func scanPackage(row interface{ Scan(dest ...any) error }) (*model.ServicePackage, error) {
	var p model.ServicePackage
	err := row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.SessionDuration,
		&p.ComboDays,
		&p.TimeInterval,
		&p.IsActive,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateCategory создаёт категорию
func (r *CatalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.QueryRow(ctx, query, c.Name, c.Description, c.IsActive).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// GetCategory получает категорию по ID
func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT id, name, description, is_active, created_at FROM categories WHERE id = $1`

	var c model.Category
	err := r.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListCategories возвращает категории, activeOnly - только активные
func (r *CatalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	query := `
		SELECT id, name, description, is_active, created_at
		FROM categories
		WHERE is_active OR NOT $1
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

// SetCategoryActive включает или скрывает категорию
func (r *CatalogRepository) SetCategoryActive(ctx context.Context, id int64, active bool) error {
	affected, err := r.ExecAffected(ctx, `UPDATE categories SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}

// CreatePackage создаёт пакет услуг
func (r *CatalogRepository) CreatePackage(ctx context.Context, p *model.ServicePackage) error {
	query := `
		INSERT INTO service_packages (category_id, name, description, price, session_duration, combo_days, time_interval, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		p.CategoryID,
		p.Name,
		p.Description,
		p.Price,
		p.SessionDuration,
		p.ComboDays,
		p.TimeInterval,
		p.IsActive,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

// GetPackage получает пакет по ID
func (r *CatalogRepository) GetPackage(ctx context.Context, id int64) (*model.ServicePackage, error) {
	p, err := scanPackage(r.QueryRow(ctx, `SELECT `+packageColumns+` FROM service_packages WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

// GetPackagesByIDs получает пакеты пачкой
func (r *CatalogRepository) GetPackagesByIDs(ctx context.Context, ids []int64) (map[int64]*model.ServicePackage, error) {
	result := make(map[int64]*model.ServicePackage, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.Query(ctx, `SELECT `+packageColumns+` FROM service_packages WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get packages by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

// ListPackages возвращает пакеты категории
func (r *CatalogRepository) ListPackages(ctx context.Context, categoryID int64, activeOnly bool) ([]*model.ServicePackage, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM service_packages
		WHERE category_id = $1 AND (is_active OR NOT $2)
		ORDER BY combo_days, price
	`

	rows, err := r.Query(ctx, query, categoryID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var packages []*model.ServicePackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

// SetPackageActive включает или скрывает пакет
func (r *CatalogRepository) SetPackageActive(ctx context.Context, id int64, active bool) error {
	affected, err := r.ExecAffected(ctx, `UPDATE service_packages SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("package not found")
	}
	return nil
}
