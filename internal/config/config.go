package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // часовые пояса без системной базы tzdata

	"github.com/joho/godotenv"

	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`

	Timezone           string `mapstructure:"TIMEZONE"`
	WorkdayOpen        string `mapstructure:"WORKDAY_OPEN"`
	WorkdayClose       string `mapstructure:"WORKDAY_CLOSE"`
	SlotStepMinutes    int    `mapstructure:"SLOT_STEP_MINUTES"`
	BookingHorizonDays int    `mapstructure:"BOOKING_HORIZON_DAYS"`
	ReminderHour       int    `mapstructure:"REMINDER_HOUR"`
	AdminTelegramIDs   []int64
	MigrationsDir      string `mapstructure:"MIGRATIONS_DIR"`

	Location *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV"),
		Timezone:      getenv("TIMEZONE"),
		WorkdayOpen:   getenv("WORKDAY_OPEN"),
		WorkdayClose:  getenv("WORKDAY_CLOSE"),
		MigrationsDir: getenv("MIGRATIONS_DIR"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}
	if cfg.WorkdayOpen == "" {
		cfg.WorkdayOpen = "08:00"
	}
	if cfg.WorkdayClose == "" {
		cfg.WorkdayClose = "22:00"
	}

	var err error
	if cfg.SlotStepMinutes, err = intVar(getenv, "SLOT_STEP_MINUTES", 30, 5, 240); err != nil {
		return nil, err
	}
	if cfg.BookingHorizonDays, err = intVar(getenv, "BOOKING_HORIZON_DAYS", 60, 1, 365); err != nil {
		return nil, err
	}
	if cfg.ReminderHour, err = intVar(getenv, "REMINDER_HOUR", 19, 0, 23); err != nil {
		return nil, err
	}
	if cfg.AdminTelegramIDs, err = idList(getenv("ADMIN_TELEGRAM_IDS")); err != nil {
		return nil, err
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	if cfg.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	open, err := scheduling.ParseClock(cfg.WorkdayOpen)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKDAY_OPEN: %w", err)
	}
	closeAt, err := scheduling.ParseClock(cfg.WorkdayClose)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKDAY_CLOSE: %w", err)
	}
	if closeAt <= open {
		return nil, fmt.Errorf("WORKDAY_CLOSE %s must be after WORKDAY_OPEN %s", cfg.WorkdayClose, cfg.WorkdayOpen)
	}

	return cfg, nil
}

// Workday рабочие часы для генерации слотов
func (c *Config) Workday() scheduling.DayWindow {
	return scheduling.DayWindow{Open: c.WorkdayOpen, Close: c.WorkdayClose}
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsAdmin проверяет что Telegram ID указан в ADMIN_TELEGRAM_IDS
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func intVar(getenv func(string) string, key string, def, minVal, maxVal int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if v < minVal || v > maxVal {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, minVal, maxVal, v)
	}
	return v, nil
}

func idList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
