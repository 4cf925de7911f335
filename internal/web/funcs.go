package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/faizmokh/logsheet/internal/hos"
)

var templateFuncs = template.FuncMap{
	"pct":     func(v float64) string { return fmt.Sprintf("%.3f", v) },
	"title":   titleCase,
	"rowTop":  func(row int) int { return hos.HeaderHeight + row*hos.RowHeight },
	"day":     func(t time.Time) string { return formatTime(t, "2006-01-02") },
	"stamp":   func(t *time.Time) string { return formatStamp(t) },
	"miles":   func(v *float64) string { return optional(v, "%.1f mi") },
	"hours":   func(v *float64) string { return optional(v, "%.1f h") },
	"hasDate": func(sheet hos.Sheet, date string) bool { return sheet.Date == date },
}

func titleCase(value string) string {
	value = strings.ReplaceAll(value, "_", " ")
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t, "2006-01-02 15:04")
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
