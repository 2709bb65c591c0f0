package staff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
)

func handlerWithWindow(open, closeAt string) *callbacktypes.Handler {
	policy := service.SchedulePolicy{
		Window:      scheduling.DayWindow{Open: open, Close: closeAt},
		StepMinutes: 30,
		HorizonDays: 60,
	}
	clock := scheduling.FixedClock{T: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)}
	return &callbacktypes.Handler{
		BookingService: service.NewBookingService(nil, nil, nil, nil, nil, policy, clock, zap.NewNop()),
		Clock:          clock,
		Location:       time.UTC,
		Logger:         zap.NewNop(),
	}
}

func TestGridConfig(t *testing.T) {
	cases := []struct {
		name       string
		open, end  string
		start, fin int
	}{
		{"whole hours", "08:00", "20:00", 8, 20},
		{"close rounded up", "07:30", "18:15", 7, 19},
		{"broken window uses defaults", "20:00", "08:00", 0, 0},
		{"unparsable window", "утро", "вечер", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := gridConfig(handlerWithWindow(tc.open, tc.end))
			assert.Equal(t, time.UTC, cfg.Location)
			assert.Equal(t, tc.start, cfg.StartHour)
			assert.Equal(t, tc.fin, cfg.EndHour)
		})
	}
}

func TestGridConfig_LayoutUsesWorkingHours(t *testing.T) {
	cfg := gridConfig(handlerWithWindow("09:00", "17:00"))
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	grid := scheduling.LayoutWeek(nil, monday, cfg)
	assert.Equal(t, 9, grid.StartHour)
	assert.Equal(t, 17, grid.EndHour)
}
