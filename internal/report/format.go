package report

import (
	"fmt"

	"github.com/meltforce/fittrack/internal/workout"
)

// Locale selects the message template.
type Locale string

const (
	English Locale = "en"
	Russian Locale = "ru"
)

// templates take, in order: kind, duration, distance, speed, calories.
var templates = map[Locale]string{
	English: "Workout type: %s; Duration: %.3f h; Distance: %.3f km; Avg speed: %.3f km/h; Calories: %.3f.",
	Russian: "Тип тренировки: %s; Длительность: %.3f ч.; Дистанция: %.3f км; Ср. скорость: %.3f км/ч; Потрачено ккал: %.3f.",
}

// ParseLocale validates a locale name. Empty selects English.
func ParseLocale(s string) (Locale, error) {
	if s == "" {
		return English, nil
	}
	l := Locale(s)
	if _, ok := templates[l]; !ok {
		return "", fmt.Errorf("unsupported locale %q", s)
	}
	return l, nil
}

// Formatter renders workout results as single-line messages.
type Formatter struct {
	locale Locale
}

// New returns a Formatter for l, falling back to English for unknown locales.
func New(l Locale) *Formatter {
	if _, ok := templates[l]; !ok {
		l = English
	}
	return &Formatter{locale: l}
}

// Locale returns the formatter's template locale.
func (f *Formatter) Locale() Locale {
	return f.locale
}

// Format renders res with every numeric field fixed to three decimals.
func (f *Formatter) Format(res workout.Result) string {
	return fmt.Sprintf(templates[f.locale],
		res.Kind, res.DurationHours, res.DistanceKm, res.SpeedKmh, res.Calories)
}

// Format renders res using the English template.
func Format(res workout.Result) string {
	return New(English).Format(res)
}
