package utils

import (
	"fmt"
	"math"
	"time"
)

// DateLayout формат дат во входных параметрах и в JSON
const DateLayout = "2006-01-02"

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// Day отбрасывает время суток и переводит дату в UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("дата %q: ожидается формат YYYY-MM-DD", value)
	}
	return t, nil
}

// MonthEnd возвращает последний день месяца, в котором лежит t
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// AddMonths сдвигает дату на n месяцев как EDATE в Excel: 31 января + 1 месяц = конец февраля
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := MonthEnd(first); t.Day() > last.Day() {
		return last
	}
	return time.Date(first.Year(), first.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthsBetween возвращает полные годы и месяцы между датами (остаток в днях отбрасывается)
func MonthsBetween(start, end time.Time) (years, months int) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return 0, 0
	}
	total := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if AddMonths(start, total).After(end) {
		total--
	}
	return total / 12, total % 12
}

// YearFraction годы с долей месяцев: годы + месяцы/12
func YearFraction(start, end time.Time) float64 {
	years, months := MonthsBetween(start, end)
	return float64(years) + float64(months)/12.0
}
