package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReference(t *testing.T) {
	day := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "BRGY-260829001", FormatReference("BRGY", day, 1))
	assert.Equal(t, "BRGY-260829042", FormatReference("BRGY", day, 42))
	// sequence keeps growing past three digits without truncation
	assert.Equal(t, "BRGY-2608291000", FormatReference("BRGY", day, 1000))
}

func TestSameDayReferencesStrictlyIncreasing(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	prev := ""
	for seq := 1; seq <= 250; seq++ {
		ref := FormatReference("BRGY", day, seq)
		assert.False(t, seen[ref], "duplicate %s", ref)
		seen[ref] = true
		if prev != "" {
			assert.Greater(t, ref, prev)
		}
		prev = ref
	}
}

func TestParseReference(t *testing.T) {
	prefix, day, seq, err := ParseReference("BRGY-260829007")
	require.NoError(t, err)
	assert.Equal(t, "BRGY", prefix)
	assert.Equal(t, "260829", day)
	assert.Equal(t, 7, seq)

	for _, bad := range []string{"", "260829007", "BRGY-26089", "brgy-260829007"} {
		_, _, _, err := ParseReference(bad)
		assert.Error(t, err, bad)
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, c := range []int64{0, 5000, 7500, 25000, 10000, 123456789} {
		parsed, err := ParseAmount(FormatAmount(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	got, err := ParseAmount("1,250.00")
	require.NoError(t, err)
	assert.Equal(t, int64(125000), got)

	_, err = ParseAmount("50.5")
	assert.Error(t, err)
}
