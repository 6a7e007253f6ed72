// Package dateutils provides the date parsing and month arithmetic used
// throughout the forecasting engine. All functions are pure; dates are never
// mutated in place.
package dateutils

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/parsererror"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO        = "2006-01-02"
	DateLayoutUS         = "1/2/2006"
	DateLayoutFull       = "2006-01-02 15:04:05"
	DateLayoutMonthLabel = "Jan-06"
	DateLayoutYearMonth  = "2006-01"
)

// fallbackFormats is the list of formats tried when a date is not in the
// primary slash-delimited US form.
var fallbackFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	"01/02/2006",
	"2006/01/02",
	"01-02-2006",
	"2006.01.02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	DateLayoutYearMonth,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanDateString trims a date string and collapses internal whitespace runs.
func CleanDateString(dateStr string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseLoanDate parses a date as found in loan tapes: M/D/YY or M/D/YYYY
// (US month/day/year). Two-digit years below 50 map to 20xx, the rest to
// 19xx. When slash parsing fails it falls back to a list of generic formats.
func ParseLoanDate(dateStr string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	if strings.Contains(cleaned, "/") {
		if t, err := parseSlashDate(cleaned); err == nil {
			return t, nil
		}
	}

	for _, format := range fallbackFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &parsererror.ParseError{
		Field: "date",
		Value: dateStr,
		Err:   errors.New("no supported format matched"),
	}
}

func parseSlashDate(s string) (time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("expected M/D/Y, got %q", s)
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in %q: %w", s, err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}

	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date out of range: %q", s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// StartOfMonth returns the first day of the month for a given date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// AddMonths advances a date by the given number of calendar months,
// preserving the day of month where possible.
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// DaysBetween returns the number of whole days from a to b. Negative when b
// is before a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// MonthLabel formats a date as the canonical "Mon-YY" month label, e.g.
// "Nov-24".
func MonthLabel(date time.Time) string {
	return date.Format(DateLayoutMonthLabel)
}

// ParseMonthLabel parses a "Mon-YY" month label back into the first day of
// that month.
func ParseMonthLabel(label string) (time.Time, error) {
	t, err := time.Parse(DateLayoutMonthLabel, strings.TrimSpace(label))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month label %q: %w", label, err)
	}
	return t, nil
}

// SortMonthLabels sorts "Mon-YY" labels in chronological order. Labels that
// fail to parse sort to the end, preserving their relative order.
func SortMonthLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ti, erri := ParseMonthLabel(labels[i])
		tj, errj := ParseMonthLabel(labels[j])
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.Before(tj)
	})
}

// ParseStartMonth parses an operator-supplied forecast start such as
// "2024-07", "2024-07-01" or "7/1/2024" and normalizes it to the first day
// of the month.
func ParseStartMonth(s string) (time.Time, error) {
	cleaned := CleanDateString(s)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty start month")
	}
	if t, err := time.Parse(DateLayoutYearMonth, cleaned); err == nil {
		return t, nil
	}
	t, err := ParseLoanDate(cleaned)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start month %q: %w", s, err)
	}
	return StartOfMonth(t), nil
}
