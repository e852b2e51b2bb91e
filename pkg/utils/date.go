package utils

import "time"

// ParseDate converte uma string YYYY-MM-DD para time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(time.DateOnly, dateStr)
}

// StartOfDay normaliza o instante para a meia-noite do mesmo dia
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FirstDayOfMonth retorna o primeiro dia do mês do instante informado
func FirstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EqualDate informa se dois instantes caem no mesmo dia de calendário
func EqualDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
