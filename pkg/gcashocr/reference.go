package gcashocr

import (
	"regexp"
	"strings"
)

// GCash prints a 13-digit reference number, usually grouped 4-3-6
// ("9015 336 412884"). OCR may drop or mangle the grouping, so both a
// labelled and a bare-group pattern are tried.
var (
	labelledRefRE = regexp.MustCompile(`(?i)ref(?:erence)?\s*no\.?\s*[:.]?\s*([0-9][0-9 ]{8,20}[0-9])`)
	bareRefRE     = regexp.MustCompile(`\b([0-9]{4}\s?[0-9]{3}\s?[0-9]{6})\b`)
)

// FindReference extracts the GCash reference number from OCR text, digits
// only. Returns "" when nothing credible is found.
func FindReference(text string) string {
	if m := labelledRefRE.FindStringSubmatch(text); len(m) >= 2 {
		d := onlyDigits(m[1])
		if len(d) >= 10 && len(d) <= 15 {
			return d
		}
	}
	if m := bareRefRE.FindStringSubmatch(text); len(m) >= 2 {
		return onlyDigits(m[1])
	}
	return ""
}

// ContainsPaymentReference reports whether the receipt quotes the request's
// own tracking number (residents are told to put it in the GCash message).
func ContainsPaymentReference(text, referenceNo string) bool {
	if referenceNo == "" {
		return false
	}
	return strings.Contains(
		strings.ToUpper(normalizeText(text)),
		strings.ToUpper(referenceNo),
	)
}
