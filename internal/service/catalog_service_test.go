package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
)

func TestValidatePackage(t *testing.T) {
	valid := func() *model.ServicePackage {
		return &model.ServicePackage{Name: "Перевязка", SessionDuration: 30, ComboDays: 1, Price: 100000}
	}

	require.NoError(t, ValidatePackage(valid()))

	cases := map[string]func(p *model.ServicePackage){
		"empty name":     func(p *model.ServicePackage) { p.Name = " " },
		"no sessions":    func(p *model.ServicePackage) { p.ComboDays = 0 },
		"negative gap":   func(p *model.ServicePackage) { p.TimeInterval = -1 },
		"too short":      func(p *model.ServicePackage) { p.SessionDuration = 5 },
		"too long":       func(p *model.ServicePackage) { p.SessionDuration = 600 },
		"negative price": func(p *model.ServicePackage) { p.Price = -1 },
	}
	for name, mutate := range cases {
		p := valid()
		mutate(p)
		assert.ErrorIs(t, ValidatePackage(p), ErrInvalidPackage, name)
	}
}

func TestCatalogService(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.catalog, 60, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, f.client, "Реабилитация", "")
	assert.ErrorIs(t, err, ErrForbidden)

	c, err := svc.CreateCategory(ctx, f.manager, "  Реабилитация ", "ЛФК на дому")
	require.NoError(t, err)
	assert.Equal(t, "Реабилитация", c.Name)

	p := &model.ServicePackage{CategoryID: c.ID, Name: "ЛФК", SessionDuration: 60, ComboDays: 5, TimeInterval: 1}
	require.NoError(t, svc.CreatePackage(ctx, f.manager, p))
	assert.True(t, p.IsActive)

	bad := &model.ServicePackage{CategoryID: 999, Name: "ЛФК", SessionDuration: 60, ComboDays: 1}
	assert.ErrorIs(t, svc.CreatePackage(ctx, f.manager, bad), ErrCategoryNotFound)

	toggled, err := svc.TogglePackage(ctx, f.manager, p.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	active, err := svc.ListPackages(ctx, c.ID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.GetPackage(ctx, 12345)
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestCreatePackage_SeriesBeyondHorizon(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.catalog, 60, zap.NewNop())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, f.manager, "Капельницы", "")
	require.NoError(t, err)

	// 9 шагов по 7 дней = 63 дня, последний визит за горизонтом
	tooLong := &model.ServicePackage{CategoryID: c.ID, Name: "Курс", SessionDuration: 60, ComboDays: 10, TimeInterval: 6}
	assert.ErrorIs(t, svc.CreatePackage(ctx, f.manager, tooLong), ErrPackageTooLong)
	assert.Zero(t, tooLong.ID)

	// 59 дней помещаются
	fits := &model.ServicePackage{CategoryID: c.ID, Name: "Курс", SessionDuration: 60, ComboDays: 60, TimeInterval: 0}
	require.NoError(t, svc.CreatePackage(ctx, f.manager, fits))

	edge := &model.ServicePackage{CategoryID: c.ID, Name: "Курс", SessionDuration: 60, ComboDays: 11, TimeInterval: 5}
	require.NoError(t, svc.CheckSeries(edge))

	unlimited := NewCatalogService(f.catalog, 0, zap.NewNop())
	assert.NoError(t, unlimited.CheckSeries(tooLong))
}
