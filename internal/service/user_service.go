package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
)

type UserService struct {
	userRepo UserStore
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		if existingUser.Username == username && existingUser.FirstName == firstName &&
			existingUser.LastName == lastName && existingUser.LanguageCode == languageCode {
			return existingUser, nil
		}

		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		if err := s.userRepo.Update(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	// Создаём нового пользователя
	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		Role:         model.RoleClient, // По умолчанию заказчик
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByIDs получает пользователей пачкой
func (s *UserService) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	return s.userRepo.GetByIDs(ctx, ids)
}

// ListNurses возвращает всех медсестёр
func (s *UserService) ListNurses(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListByRole(ctx, model.RoleNurse)
}

// SetRole меняет роль пользователя по его Telegram ID. Доступно только администратору.
func (s *UserService) SetRole(ctx context.Context, actor *model.User, targetTelegramID int64, role model.Role) (*model.User, error) {
	if actor == nil || actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if _, ok := model.ParseRole(string(role)); !ok {
		return nil, ErrInvalidRole
	}

	target, err := s.userRepo.GetByTelegramID(ctx, targetTelegramID)
	if err != nil {
		return nil, fmt.Errorf("get target user: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == actor.ID && role != model.RoleAdmin {
		// администратор не может снять права сам с себя
		return nil, ErrForbidden
	}

	if err := s.userRepo.SetRole(ctx, target.ID, role); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	target.Role = role

	s.logger.Info("User role changed",
		zap.Int64("user_id", target.ID),
		zap.Int64("by", actor.ID),
		zap.String("role", string(role)),
	)

	return target, nil
}

// EnsureAdmins выдаёт роль admin пользователям из конфигурации, если они уже зарегистрированы
func (s *UserService) EnsureAdmins(ctx context.Context, telegramIDs []int64) error {
	for _, id := range telegramIDs {
		user, err := s.userRepo.GetByTelegramID(ctx, id)
		if err != nil {
			return fmt.Errorf("get admin %d: %w", id, err)
		}
		if user == nil || user.Role == model.RoleAdmin {
			continue
		}

		if err := s.userRepo.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin %d: %w", id, err)
		}
		s.logger.Info("Admin promoted from config", zap.Int64("telegram_id", id))
	}
	return nil
}
