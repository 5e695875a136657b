package tokens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter int

func (s stubCounter) CountTokens(ctx context.Context) int {
	return int(s)
}

func TestCheckTiers(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		wantTier    Tier
		wantPercent float64
	}{
		{"empty context", 0, TierOK, 0},
		{"small context", 100_000, TierOK, 10},
		{"just under notice", 499_999, TierOK, 49.9999},
		{"at notice", 500_000, TierNotice, 50},
		{"between tiers", 700_000, TierNotice, 70},
		{"at warn", 800_000, TierWarn, 80},
		{"over the ceiling", 1_200_000, TierWarn, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage, ok := NewMonitor(stubCounter(tt.count)).Check(context.Background())
			require.True(t, ok, "Check reported failure for a valid count")
			assert.Equal(t, tt.count, usage.Tokens)
			assert.Equal(t, tt.wantTier, usage.Tier)
			assert.InDelta(t, tt.wantPercent, usage.Percent, 0.001)
		})
	}
}

func TestCheckCountFailure(t *testing.T) {
	usage, ok := NewMonitor(stubCounter(-1)).Check(context.Background())
	assert.False(t, ok, "Check reported success for a failed count")
	assert.Equal(t, Usage{}, usage)
}
