package port

import (
	"context"
	"errors"

	"wound-vision/internal/domain/entity"
)

// ErrUserNotFound возвращается, если у пользователя ещё нет сессии
var ErrUserNotFound = errors.New("user not found")

// UserRepository интерфейс хранилища диалоговых сессий бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// UpdateState обновляет состояние существующего пользователя
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
