package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// checkLength проверяет длину ввода в символах
// Возвращает текст ошибки для пользователя или пустую строку
func checkLength(field, value string, minLen, maxLen int) string {
	n := utf8.RuneCountInString(value)
	if minLen > 0 && n < minLen {
		return fmt.Sprintf("❌ %s слишком короткое. Минимум %d символов.\n\nПопробуйте ещё раз:", field, minLen)
	}
	if maxLen > 0 && n > maxLen {
		return fmt.Sprintf("❌ %s слишком длинное. Максимум %d символов.\n\nПопробуйте ещё раз:", field, maxLen)
	}
	return ""
}

// parseIntInRange разбирает целое число в диапазоне [minVal, maxVal]
func parseIntInRange(s string, minVal, maxVal int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < minVal || v > maxVal {
		return 0, fmt.Errorf("%d is out of range %d-%d", v, minVal, maxVal)
	}
	return v, nil
}

// parsePriceRubles разбирает цену в рублях ("1500", "1500.50", "1 500,50") и возвращает копейки
func parsePriceRubles(s string, maxRubles int) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	rublesPart, kopecksPart, hasKopecks := strings.Cut(s, ".")
	rubles, err := strconv.Atoi(rublesPart)
	if err != nil || rubles < 0 {
		return 0, fmt.Errorf("invalid price: %q", s)
	}

	kopecks := 0
	if hasKopecks {
		if len(kopecksPart) == 0 || len(kopecksPart) > 2 {
			return 0, fmt.Errorf("invalid kopecks in %q", s)
		}
		if len(kopecksPart) == 1 {
			kopecksPart += "0"
		}
		kopecks, err = strconv.Atoi(kopecksPart)
		if err != nil || kopecks < 0 {
			return 0, fmt.Errorf("invalid kopecks in %q", s)
		}
	}

	if rubles > maxRubles {
		return 0, fmt.Errorf("price %d exceeds %d", rubles, maxRubles)
	}
	return rubles*100 + kopecks, nil
}

// optional возвращает пустую строку, если пользователь пропустил шаг
func optional(s string) string {
	s = strings.TrimSpace(s)
	if s == skipInput {
		return ""
	}
	return s
}
