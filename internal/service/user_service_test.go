package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

func TestRegisterUser(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, zap.NewNop())
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, 5555, "maria", "Мария", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, u.Role)
	assert.NotZero(t, u.ID)

	again, err := svc.RegisterUser(ctx, 5555, "maria_k", "Мария", "К", "ru")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "maria_k", f.users.byID[u.ID].Username)
}

func TestSetRole(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, zap.NewNop())
	ctx := context.Background()

	_, err := svc.SetRole(ctx, f.manager, f.client.TelegramID, model.RoleNurse)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetRole(ctx, f.admin, 424242, model.RoleNurse)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.SetRole(ctx, f.admin, f.client.TelegramID, model.Role("boss"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.SetRole(ctx, f.admin, f.admin.TelegramID, model.RoleClient)
	assert.ErrorIs(t, err, ErrForbidden)

	u, err := svc.SetRole(ctx, f.admin, f.client.TelegramID, model.RoleNurse)
	require.NoError(t, err)
	assert.Equal(t, model.RoleNurse, u.Role)

	nurses, err := svc.ListNurses(ctx)
	require.NoError(t, err)
	assert.Len(t, nurses, 3)
}

func TestEnsureAdmins(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, zap.NewNop())

	require.NoError(t, svc.EnsureAdmins(context.Background(), []int64{f.manager.TelegramID, 777}))
	assert.Equal(t, model.RoleAdmin, f.manager.Role)
}

func TestCreatePatient(t *testing.T) {
	f := newFixture()
	svc := NewPatientService(f.patients, scheduling.FixedClock{T: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}, zap.NewNop())
	ctx := context.Background()

	p := &model.Patient{OwnerID: f.client.ID, FullName: " Мария Иванова ", BirthYear: 1940, Address: "пр. Мира, 10, кв. 5"}
	require.NoError(t, svc.CreatePatient(ctx, p))
	assert.Equal(t, "Мария Иванова", p.FullName)

	got, err := svc.GetForOwner(ctx, f.client.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetForOwner(ctx, f.nurse.ID, p.ID)
	assert.ErrorIs(t, err, ErrPatientNotFound)

	bad := &model.Patient{OwnerID: f.client.ID, FullName: "Я", Address: "пр. Мира, 10"}
	assert.ErrorIs(t, svc.CreatePatient(ctx, bad), ErrInvalidPatient)

	old := &model.Patient{OwnerID: f.client.ID, FullName: "Пётр", BirthYear: 1800, Address: "пр. Мира, 10"}
	assert.ErrorIs(t, svc.CreatePatient(ctx, old), ErrInvalidPatient)
}
