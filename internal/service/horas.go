package service

// horas.go
// Clock-string helpers shared by the availability resolver and the scheduling
// validator. Weekly schedules, business hours and partial absences store
// times as "HH:MM" in salon-local time; all comparisons happen on concrete
// time.Time values anchored to the target date.

import (
	"fmt"
	"time"
)

// parseHoraEn anchors an "HH:MM" clock string to fecha's date in loc.
func parseHoraEn(hora string, fecha time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hora)
	if err != nil {
		return time.Time{}, fmt.Errorf("hora inválida %q: %w", hora, err)
	}
	f := fecha.In(loc)
	return time.Date(f.Year(), f.Month(), f.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// rangoDia returns [00:00, 24:00) of fecha's date in loc.
func rangoDia(fecha time.Time, loc *time.Location) (time.Time, time.Time) {
	f := fecha.In(loc)
	desde := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc)
	return desde, desde.AddDate(0, 0, 1)
}

// seSolapan reports whether [aInicio, aFin) and [bInicio, bFin) intersect.
// Touching endpoints do not overlap.
func seSolapan(aInicio, aFin, bInicio, bFin time.Time) bool {
	return aInicio.Before(bFin) && bInicio.Before(aFin)
}
