package similarity_test

import (
	"testing"

	"github.com/nusatech-dev/backoffice-api/internal/similarity"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		a           string
		b           string
		wantSim     int
		wantPercent float64
	}{
		{
			name:        "identical strings",
			a:           "PT Nusantara Teknologi",
			b:           "PT Nusantara Teknologi",
			wantSim:     22,
			wantPercent: 100,
		},
		{
			name:        "both empty",
			a:           "",
			b:           "",
			wantSim:     0,
			wantPercent: 0,
		},
		{
			name:        "one empty",
			a:           "abc",
			b:           "",
			wantSim:     0,
			wantPercent: 0,
		},
		{
			name:        "no overlap",
			a:           "abc",
			b:           "xyz",
			wantSim:     0,
			wantPercent: 0,
		},
		{
			name:        "partial overlap",
			a:           "world",
			b:           "word",
			wantSim:     4,
			wantPercent: float64(8) / float64(9) * 100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sim, percent := similarity.Score(tc.a, tc.b)
			assert.Equal(t, tc.wantSim, sim)
			assert.InDelta(t, tc.wantPercent, percent, 0.001)
		})
	}
}

func TestNearDuplicate(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{
			name:     "identical",
			a:        "PT Maju Bersama",
			b:        "PT Maju Bersama",
			expected: true,
		},
		{
			name:     "case difference only",
			a:        "PT MAJU BERSAMA",
			b:        "pt maju bersama",
			expected: true,
		},
		{
			name:     "single trailing character added",
			a:        "PT Maju Bersama Sejahtera Abadi",
			b:        "PT Maju Bersama Sejahtera Abadis",
			expected: true,
		},
		{
			name:     "clearly different companies",
			a:        "PT Maju Bersama",
			b:        "CV Sinar Terang",
			expected: false,
		},
		{
			name:     "shared prefix but different name",
			a:        "PT Nusantara Teknologi",
			b:        "PT Nusantara Logistik",
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, similarity.NearDuplicate(tc.a, tc.b))
		})
	}
}
