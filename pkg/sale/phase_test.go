package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaleWindow_PhaseAt_Boundaries(t *testing.T) {
	const (
		start = int64(1000)
		end   = int64(2000)
	)
	w := SaleWindow{WhitelistStart: start, WhitelistEnd: end, Active: true}

	tests := []struct {
		name string
		now  int64
		want Phase
	}{
		{"well before start", 0, PhaseUpcoming},
		{"one second before start", start - 1, PhaseUpcoming},
		{"exactly at start", start, PhaseWhitelist},
		{"inside window", 1500, PhaseWhitelist},
		{"exactly at end", end, PhaseWhitelist},
		{"one second after end", end + 1, PhasePublic},
		{"long after end", end + 100000, PhasePublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.PhaseAt(tt.now))
		})
	}
}

func TestSaleWindow_PhaseAt_InactiveOverridesTime(t *testing.T) {
	w := SaleWindow{WhitelistStart: 1000, WhitelistEnd: 2000, Active: false}

	assert.Equal(t, PhaseInactive, w.PhaseAt(0))
	assert.Equal(t, PhaseInactive, w.PhaseAt(1500))
	assert.Equal(t, PhaseInactive, w.PhaseAt(5000))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "INACTIVE", PhaseInactive.String())
	assert.Equal(t, "UPCOMING", PhaseUpcoming.String())
	assert.Equal(t, "WHITELIST", PhaseWhitelist.String())
	assert.Equal(t, "PUBLIC", PhasePublic.String())
}
