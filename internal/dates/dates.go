// Package dates converts between times and the YYYY-MM-DD day keys records
// are filed under, and renders the Chinese display strings used in exports.
package dates

import (
	"fmt"
	"time"

	"express-ledger-service/internal/ports"
)

// Layout is the day key layout.
const Layout = "2006-01-02"

var weekdays = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// Format returns the day key of t in t's location.
func Format(t time.Time) string { return t.Format(Layout) }

// Today returns the day key of the clock's current time.
func Today(c ports.Clock) string { return Format(c.Now()) }

// Parse reads a day key as local midnight.
func Parse(day string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, day, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", day, err)
	}
	return t, nil
}

// Valid reports whether day is a well-formed day key.
func Valid(day string) bool {
	_, err := Parse(day)
	return err == nil
}

// Display renders a day key as "1月2日 星期五". Malformed keys are returned
// unchanged.
func Display(day string) string {
	t, err := Parse(day)
	if err != nil {
		return day
	}
	return fmt.Sprintf("%d月%d日 星期%s", int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

// FormatCreateTime renders a creation time relative to now: "今天 15:04"
// for the same day, "1月2日 15:04" otherwise. The zero time renders empty.
func FormatCreateTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(now.Location())
	if Format(t) == Format(now) {
		return "今天 " + t.Format("15:04")
	}
	return fmt.Sprintf("%d月%d日 %s", int(t.Month()), t.Day(), t.Format("15:04"))
}
