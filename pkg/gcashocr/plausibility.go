package gcashocr

import "strings"

// isPlausibleAmount applies lightweight heuristics to decide whether a matched
// substring likely represents a fee rather than a phone number, reference
// number fragment or account number. Barangay fees are small: anything above
// seven digits of pesos is rejected outright.
func isPlausibleAmount(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	low := strings.ToLower(s)
	hasMarker := strings.Contains(low, "php") || strings.Contains(low, "₱")
	d := onlyDigits(s)
	if d == "" || d[0] == '0' && len(d) > 2 {
		return false
	}
	if len(d) > 9 { // 13-digit GCash reference numbers land here
		return false
	}
	if hasMarker || strings.Contains(s, ".") || strings.Contains(s, ",") {
		return true
	}
	// bare digit runs: accept only short ones, long runs are usually ids
	return len(d) <= 5
}
