package domain

import (
	"fmt"
	"time"
)

// Document number prefixes per document family.
const (
	PrefixPks       = "PKS"
	PrefixSpk       = "SPK"
	PrefixCustomer  = "CST"
	PrefixQuotation = "QUO"

	// PlaceholderCode is used in place of an owning-entity code when none applies.
	PlaceholderCode = "NN"
	// PlaceholderScope replaces the parent lead's nomor when the lead cannot
	// be resolved.
	PlaceholderScope = "NN/NNNNN"
)

// activityPrefixes maps a lead's need category to the prefix used on its
// activity numbers. Unknown categories fall back to "NN".
var activityPrefixes = map[NeedCategory]string{
	NeedInternet:       "IN",
	NeedDataCenter:     "DC",
	NeedManagedService: "MS",
	NeedColocation:     "CL",
}

// ActivityPrefix returns the document-number prefix for a lead's activities.
func ActivityPrefix(need NeedCategory) string {
	if p, ok := activityPrefixes[need]; ok {
		return p
	}
	return PlaceholderCode
}

// FormatNomor builds a month-scoped document number of the shape
// PREFIX/SCOPE-MMYYYY-NNNNN. An empty scope falls back to the placeholder.
func FormatNomor(prefix, scope string, at time.Time, seq int) string {
	if scope == "" {
		scope = PlaceholderScope
	}
	return fmt.Sprintf("%s/%s-%02d%04d-%05d", prefix, scope, int(at.Month()), at.Year(), seq)
}

// FormatNomorWithEntity builds a document number that carries an owning-entity
// code: PREFIX/CODE/SCOPE-MMYYYY-NNNNN. Empty code and scope fall back to
// their placeholders.
func FormatNomorWithEntity(prefix, entityCode, scope string, at time.Time, seq int) string {
	if entityCode == "" {
		entityCode = PlaceholderCode
	}
	return FormatNomor(prefix+"/"+entityCode, scope, at, seq)
}

// NextLeadNomor derives the next 5-character lead code from the most recent
// one. Scanning right to left, the first incrementable character is bumped
// and scanning stops: digits 0-8 advance by one, letters A-Y advance by one,
// and Z rolls to 0. The digit 9 is never incremented; it is skipped and the
// scan continues left. There is no carry beyond the single touched position.
func NextLeadNomor(prev string) string {
	if prev == "" {
		return "AAAAA"
	}
	b := []byte(prev)
	for i := len(b) - 1; i >= 0; i-- {
		switch c := b[i]; {
		case c >= '0' && c <= '8':
			b[i] = c + 1
			return string(b)
		case c >= 'A' && c <= 'Y':
			b[i] = c + 1
			return string(b)
		case c == 'Z':
			b[i] = '0'
			return string(b)
		}
	}
	return string(b)
}
