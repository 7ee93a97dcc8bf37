package gcashocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var centavosRE = regexp.MustCompile(`\.\d{2}$`)

// ParsePesoAmount normalizes a matched substring into centavos. GCash renders
// peso amounts with meaningful two-decimal centavos and comma thousands
// grouping ("₱1,250.00" -> 125000); a value with no decimal part is taken as
// whole pesos ("P50" -> 5000).
func ParsePesoAmount(found string) (int64, error) {
	s := strings.TrimSpace(found)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	// strip currency markers the OCR may or may not keep
	low := strings.ToLower(s)
	for _, marker := range []string{"php", "₱", "p"} {
		if strings.HasPrefix(low, marker) {
			s = strings.TrimSpace(s[len(marker):])
			break
		}
	}
	s = strings.TrimLeft(s, ":- ")
	var wholePart, centPart string
	if centavosRE.MatchString(s) {
		dot := strings.LastIndex(s, ".")
		wholePart = onlyDigits(s[:dot])
		centPart = s[dot+1:]
	} else {
		wholePart = onlyDigits(s)
		centPart = "00"
	}
	if wholePart == "" {
		return 0, fmt.Errorf("no digits extracted from %q", found)
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", found, err)
	}
	cents, err := strconv.ParseInt(centPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse centavos %q: %w", found, err)
	}
	return whole*100 + cents, nil
}

// amountPatterns match peso amounts in OCR output, strongest context first.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:total amount sent|amount sent|total amount|amount due|amount|total)[:\s]*(?:php|₱|P)?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)(?:php|₱)\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`\b([0-9]{1,3}(?:,[0-9]{3})+\.[0-9]{2})\b`),
	regexp.MustCompile(`\b([0-9]{1,6}\.[0-9]{2})\b`),
}

// FindAmountCandidates scans OCR text for peso-amount-looking substrings,
// preserving surrounding currency/keyword context so scoring can rank them.
func FindAmountCandidates(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			cand := strings.TrimSpace(m[1])
			if cand == "" {
				continue
			}
			// re-associate a stripped currency marker so scoring sees it
			full := strings.ToLower(m[0])
			if strings.Contains(full, "php") || strings.Contains(full, "₱") {
				cand = "PHP " + cand
			}
			if _, ok := seen[cand]; ok {
				continue
			}
			seen[cand] = struct{}{}
			if !isPlausibleAmount(cand) {
				continue
			}
			out = append(out, cand)
		}
	}
	return out
}
