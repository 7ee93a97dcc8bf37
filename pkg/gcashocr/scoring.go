package gcashocr

import "strings"

// BestAmountFromCandidates selects the most credible amount using scoring
// priorities: explicit currency markers and "amount sent" context beat bare
// numbers, decimal centavos beat integer runs, ties break toward the larger
// amount then the longer raw match.
func BestAmountFromCandidates(cands []string) (int64, string, bool) {
	type scored struct {
		amt   int64
		raw   string
		score int
	}
	scoreFor := func(raw string) int {
		s := 0
		low := strings.ToLower(raw)
		if strings.Contains(low, "php") || strings.Contains(low, "₱") {
			s += 10
		}
		if strings.Contains(raw, ".") {
			s += 5
		}
		if strings.Contains(raw, ",") {
			s += 3
		}
		if len(onlyDigits(raw)) >= 3 {
			s += 1
		}
		return s
	}
	var best *scored
	for _, c := range cands {
		amt, err := ParsePesoAmount(c)
		if err != nil || amt <= 0 {
			continue
		}
		cur := scored{amt: amt, raw: c, score: scoreFor(c)}
		switch {
		case best == nil:
			best = &cur
		case cur.score > best.score:
			best = &cur
		case cur.score == best.score && cur.amt > best.amt:
			best = &cur
		case cur.score == best.score && cur.amt == best.amt && len(cur.raw) > len(best.raw):
			best = &cur
		}
	}
	if best == nil {
		return 0, "", false
	}
	return best.amt, best.raw, true
}
