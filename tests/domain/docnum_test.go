package domain_test

import (
	"testing"
	"time"

	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatNomor(t *testing.T) {
	at := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prefix   string
		scope    string
		seq      int
		expected string
	}{
		{
			name:     "basic quotation number",
			prefix:   domain.PrefixQuotation,
			scope:    "AAAAB",
			seq:      1,
			expected: "QUO/AAAAB-032026-00001",
		},
		{
			name:     "sequence is zero padded to five digits",
			prefix:   domain.PrefixCustomer,
			scope:    "AAAAB",
			seq:      42,
			expected: "CST/AAAAB-032026-00042",
		},
		{
			name:     "empty scope falls back to placeholder",
			prefix:   domain.PrefixQuotation,
			scope:    "",
			seq:      7,
			expected: "QUO/NN/NNNNN-032026-00007",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.FormatNomor(tc.prefix, tc.scope, at, tc.seq)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatNomorMonthPadding(t *testing.T) {
	jan := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	got := domain.FormatNomor(domain.PrefixQuotation, "AAAAA", jan, 1)
	assert.Equal(t, "QUO/AAAAA-012026-00001", got)

	dec := time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC)
	got = domain.FormatNomor(domain.PrefixQuotation, "AAAAA", dec, 1)
	assert.Equal(t, "QUO/AAAAA-122026-00001", got)
}

func TestFormatNomorWithEntity(t *testing.T) {
	at := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	got := domain.FormatNomorWithEntity(domain.PrefixPks, "PTTI", "AAAAC", at, 3)
	assert.Equal(t, "PKS/PTTI/AAAAC-062026-00003", got)

	got = domain.FormatNomorWithEntity(domain.PrefixSpk, "", "AAAAC", at, 1)
	assert.Equal(t, "SPK/NN/AAAAC-062026-00001", got)
}

func TestNextLeadNomor(t *testing.T) {
	tests := []struct {
		prev     string
		expected string
	}{
		{"", "AAAAA"},
		{"AAAAA", "AAAAB"},
		{"AAAAY", "AAAAZ"},
		{"AAAAZ", "AAAA0"},
		{"AAAA0", "AAAA1"},
		{"AAAA8", "AAAA9"},
		// 9 is never incremented, the scan moves one position left
		{"AAAA9", "AAAB9"},
		{"AAAZ9", "AAA09"},
		{"AA999", "AB999"},
		{"ZZZZZ", "ZZZZ0"},
	}

	for _, tc := range tests {
		t.Run(tc.prev+"_to_"+tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, domain.NextLeadNomor(tc.prev))
		})
	}
}

func TestActivityPrefix(t *testing.T) {
	assert.Equal(t, "IN", domain.ActivityPrefix(domain.NeedInternet))
	assert.Equal(t, "DC", domain.ActivityPrefix(domain.NeedDataCenter))
	assert.Equal(t, "MS", domain.ActivityPrefix(domain.NeedManagedService))
	assert.Equal(t, "CL", domain.ActivityPrefix(domain.NeedColocation))
	assert.Equal(t, "NN", domain.ActivityPrefix(domain.NeedCategory("unknown")))
}
