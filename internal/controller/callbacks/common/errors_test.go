package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
)

func TestErrorMessage_MapsWrappedErrors(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("book: %w", service.ErrNurseBusy), "❌ Медсестра занята в это время"},
		{fmt.Errorf("%w: session 2", scheduling.ErrInvalidSchedule), "❌ Даты визитов не соответствуют пакету"},
		{fmt.Errorf("%w: series spans 63 days", service.ErrPackageTooLong), "❌ Серия визитов не помещается в горизонт записи"},
		{fmt.Errorf("review report: %w", fmt.Errorf("report 5: %w", model.ErrReportReviewed)), "❌ Отчёт уже проверен"},
		{service.ErrForbidden, "❌ Недостаточно прав"},
		{ErrNotManager, "❌ Недостаточно прав"},
		{service.ErrUserNotFound, "❌ Пользователь не найден. Используйте /start"},
		{ErrSessionExpired, "⌛ Сессия устарела. Начните заново: /book"},
		{errors.New("boom"), "❌ Произошла ошибка"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorMessage(tc.err), tc.err.Error())
	}
}

func TestIsMessageNotModifiedError(t *testing.T) {
	assert.False(t, IsMessageNotModifiedError(nil))
	assert.True(t, IsMessageNotModifiedError(errors.New("bad request, Bad Request: message is not modified: specified new message content")))
	assert.False(t, IsMessageNotModifiedError(errors.New("forbidden")))
}

func TestParseCallbackArgs(t *testing.T) {
	id, err := ParseIDFromCallback("bk_pkg:42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseIDFromCallback("bk_pkg")
	assert.Error(t, err)

	ids, err := ParseIDsFromCallback("as_nurse:7:3", 2)
	assert.NoError(t, err)
	assert.Equal(t, []int64{7, 3}, ids)

	_, err = ParseIDsFromCallback("as_nurse:7", 2)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	assert.Equal(t, "2025-04-09", CallbackArg("bk_date:2025-04-09"))
	assert.Equal(t, "08:00-08:45", CallbackArg("bk_slot:08:00-08:45"))
	assert.Equal(t, "", CallbackArg("noop"))
}
