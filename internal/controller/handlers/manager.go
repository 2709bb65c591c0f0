package handlers

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/manager"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/staff"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSchedule обрабатывает команду /schedule - все визиты недели
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}
	h.sendWeek(ctx, b, update, user, staff.ScopeAll)
}

// HandleCatalog обрабатывает команду /catalog
func (h *Handlers) HandleCatalog(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}
	h.stateManager.ClearState(user.TelegramID)

	h.showScreen(ctx, b, update, "catalog", func() (string, *models.InlineKeyboardMarkup, error) {
		return manager.BuildCatalogScreen(ctx, h.screens)
	})
}

// HandleAssign обрабатывает команду /assign
func (h *Handlers) HandleAssign(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireManager(ctx, b, update); !ok {
		return
	}

	h.showScreen(ctx, b, update, "list_unassigned", func() (string, *models.InlineKeyboardMarkup, error) {
		return manager.BuildAssignScreen(ctx, h.screens, 0)
	})
}

// HandleApprovals обрабатывает команду /approvals
func (h *Handlers) HandleApprovals(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}

	h.showScreen(ctx, b, update, "list_pending_reports", func() (string, *models.InlineKeyboardMarkup, error) {
		return manager.BuildApprovalsScreen(ctx, h.screens, user)
	})
}

// parseSetRoleArgs разбирает "/setrole <telegram_id> <role>"
func parseSetRoleArgs(text string) (int64, model.Role, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return 0, "", fmt.Errorf("expected 2 arguments, got %d", len(fields)-1)
	}

	telegramID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || telegramID <= 0 {
		return 0, "", fmt.Errorf("invalid telegram id %q", fields[1])
	}

	role, ok := model.ParseRole(strings.ToLower(fields[2]))
	if !ok {
		return 0, "", fmt.Errorf("unknown role %q", fields[2])
	}
	return telegramID, role, nil
}

// HandleSetRole обрабатывает команду /setrole <telegram_id> <role>
func (h *Handlers) HandleSetRole(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	if user.Role != model.RoleAdmin {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только администратору.")
		return
	}

	telegramID, role, err := parseSetRoleArgs(update.Message.Text)
	if err != nil {
		h.logger.Debug("Invalid /setrole arguments", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Формат: /setrole <telegram_id> <роль>\n\nРоли: client, nurse, manager, admin")
		return
	}

	target, err := h.userService.SetRole(ctx, user, telegramID, role)
	if err != nil {
		h.logger.Error("Failed to set role",
			zap.Int64("target_telegram_id", telegramID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ %s теперь: %s",
		html.EscapeString(target.DisplayName()), formatting.GetRoleDisplay(target.Role)))

	common.Notify(ctx, b, h.logger, target.TelegramID, fmt.Sprintf(
		"🔑 Ваша роль изменена: %s\n\n%s", formatting.GetRoleDisplay(target.Role), common.MainMenuText(target)), nil)
}
