package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
	"wound-vision/internal/infrastructure/storage"
)

func TestUserService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}

func TestUserService_Processing(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	require.ErrorIs(t, svc.StartProcessing(ctx, 3), port.ErrUserNotFound)

	_, err := svc.BeginCheck(ctx, 3, 30)
	require.NoError(t, err)
	require.NoError(t, svc.StartProcessing(ctx, 3))

	user, err := svc.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
	require.False(t, user.AwaitingPhoto())

	user, err = svc.FinishProcessing(ctx, 3, 30, "отчёт")
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, "отчёт", user.LastReport)

	user, err = svc.FinishProcessing(ctx, 3, 30, "")
	require.NoError(t, err)
	require.Equal(t, "отчёт", user.LastReport)
}
