package lifecycle

import (
	"fmt"
	"regexp"
	"time"
)

var referenceRE = regexp.MustCompile(`^([A-Z0-9]+)-(\d{6})(\d{3,})$`)

// FormatReference builds the human-facing tracking number, PREFIX-YYMMDDNNN.
// It doubles as the payment reference the requester quotes in GCash, so the
// format must stay stable.
func FormatReference(prefix string, date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s%03d", prefix, date.Format("060102"), seq)
}

// ParseReference splits a reference number back into prefix, day (YYMMDD) and
// sequence. Used by the export codec and the public tracking lookup.
func ParseReference(ref string) (prefix, day string, seq int, err error) {
	m := referenceRE.FindStringSubmatch(ref)
	if m == nil {
		return "", "", 0, fmt.Errorf("malformed reference number %q", ref)
	}
	if _, err := fmt.Sscanf(m[3], "%d", &seq); err != nil {
		return "", "", 0, fmt.Errorf("malformed reference sequence %q", ref)
	}
	return m[1], m[2], seq, nil
}
