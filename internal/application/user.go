package app

import (
	"context"

	"wound-vision/internal/domain/entity"
	"wound-vision/internal/domain/port"
)

// UserService управляет состоянием диалога с пользователем бота.
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// StartProcessing помечает существующего пользователя как занятого анализом.
func (s *UserService) StartProcessing(ctx context.Context, userID int64) error {
	return s.repo.UpdateState(ctx, userID, entity.StateProcessing)
}

// FinishProcessing запоминает отчёт и возвращает пользователя в главное меню.
func (s *UserService) FinishProcessing(ctx context.Context, userID, chatID int64, report string) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if report != "" {
		user.LastReport = report
	}
	user.SetState(entity.StateMainMenu)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
