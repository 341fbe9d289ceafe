package domain

import (
	"fmt"
	"strings"
	"time"
)

// Fixed phrases for contract expiry rendering. These are part of the API
// contract with the existing front end and must not be reworded.
const (
	ExpiryNone            = "-"
	ExpiryExpired         = "Kontrak telah berakhir"
	ExpiryWithin2Months   = "Berakhir dalam 2 bulan"
	ExpiryWithin3Months   = "Berakhir dalam 3 bulan"
	ExpiryMoreThan3Months = "Lebih dari 3 Bulan"
)

// truncateToDate drops the time-of-day component so comparisons are date-only.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ContractDaysLeft returns the whole days between now and the contract end,
// date-only. Negative when the contract has already ended, zero when it ends
// today.
func ContractDaysLeft(end, now time.Time) int {
	return int(truncateToDate(end).Sub(truncateToDate(now)).Hours() / 24)
}

// ContractRemaining renders the time until a contract's end date as an
// Indonesian phrase like "1 tahun 2 bulan 5 hari". It returns "-" when the
// end date is absent and the fixed expired phrase when the end date is not
// strictly in the future.
func ContractRemaining(end *time.Time, now time.Time) string {
	if end == nil {
		return ExpiryNone
	}
	from := truncateToDate(now)
	to := truncateToDate(*end)
	if !to.After(from) {
		return ExpiryExpired
	}

	years, months, days := calendarDiff(from, to)

	var parts []string
	if years > 0 {
		parts = append(parts, fmt.Sprintf("%d tahun", years))
	}
	if months > 0 {
		parts = append(parts, fmt.Sprintf("%d bulan", months))
	}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d hari", days))
	}
	return strings.Join(parts, " ")
}

// ContractExpiryCategory buckets the time until a contract's end date into
// coarse categories. The bucket boundaries are counted in days even though
// the labels speak of months.
func ContractExpiryCategory(end *time.Time, now time.Time) string {
	if end == nil {
		return ExpiryNone
	}
	days := ContractDaysLeft(*end, now)
	switch {
	case days <= 0:
		return ExpiryExpired
	case days <= 60:
		return ExpiryWithin2Months
	case days <= 90:
		return ExpiryWithin3Months
	default:
		return ExpiryMoreThan3Months
	}
}

// ContractIsCurrent reports whether a contract end date counts as still
// running, date-only. A contract expiring exactly today is still current.
func ContractIsCurrent(end *time.Time, now time.Time) bool {
	if end == nil {
		return false
	}
	return !truncateToDate(*end).Before(truncateToDate(now))
}

// calendarDiff computes a calendar-aware (years, months, days) difference
// between two dates, from < to.
func calendarDiff(from, to time.Time) (years, months, days int) {
	years = to.Year() - from.Year()
	months = int(to.Month()) - int(from.Month())
	days = to.Day() - from.Day()

	if days < 0 {
		// Borrow the length of the month preceding `to`.
		prevMonthEnd := time.Date(to.Year(), to.Month(), 0, 0, 0, 0, 0, to.Location())
		days += prevMonthEnd.Day()
		months--
	}
	if months < 0 {
		months += 12
		years--
	}
	return years, months, days
}
