package lifecycle

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAmount renders centavos as a two-decimal peso string, e.g. 5000 -> "50.00".
func FormatAmount(centavos int64) string {
	neg := ""
	if centavos < 0 {
		neg = "-"
		centavos = -centavos
	}
	return fmt.Sprintf("%s%d.%02d", neg, centavos/100, centavos%100)
}

// ParseAmount parses a two-decimal peso string back into centavos. Accepts an
// optional comma thousands grouping ("1,250.00").
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac := s, "0"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if len(frac) != 2 {
			return 0, fmt.Errorf("amount %q: expected two decimal places", s)
		}
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("amount %q: bad centavos", s)
	}
	if w < 0 {
		return -(-w*100 + f), nil
	}
	return w*100 + f, nil
}
