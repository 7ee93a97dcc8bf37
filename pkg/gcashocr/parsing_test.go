package gcashocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePesoAmount(t *testing.T) {
	cases := map[string]int64{
		"PHP 50.00":    5000,
		"₱50.00":       5000,
		"1,250.00":     125000,
		"PHP 1,250.00": 125000,
		"P50":          5000,
		"75.00":        7500,
		"250.00":       25000,
	}
	for raw, want := range cases {
		got, err := ParsePesoAmount(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParsePesoAmount("")
	assert.Error(t, err)
	_, err = ParsePesoAmount("PHP")
	assert.Error(t, err)
}

func TestFindAmountCandidatesFromReceiptText(t *testing.T) {
	text := normalizeText(`GCash
		Sent via GCash
		Total Amount Sent ₱50.00
		Ref No. 9015 336 412884
		Aug 29, 2026 2:14 PM`)
	cands := FindAmountCandidates(text)
	require.NotEmpty(t, cands)
	amt, raw, ok := BestAmountFromCandidates(cands)
	require.True(t, ok)
	assert.Equal(t, int64(5000), amt)
	assert.Contains(t, raw, "50.00")
}

func TestReferenceNumberDoesNotWinAsAmount(t *testing.T) {
	// the 13-digit reference must never be mistaken for the fee
	text := "Amount PHP 75.00 Ref No. 9015336412884"
	cands := FindAmountCandidates(text)
	amt, _, ok := BestAmountFromCandidates(cands)
	require.True(t, ok)
	assert.Equal(t, int64(7500), amt)
}
