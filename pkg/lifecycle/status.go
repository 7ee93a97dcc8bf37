// Package lifecycle implements the document-request state machine: statuses,
// roles, the static price table and the single transition entry point. It is
// pure logic with no storage access so the rule set is testable on its own;
// callers persist the computed Outcome.
package lifecycle

import "fmt"

// Status is the stored wire value of a request's lifecycle state.
type Status string

const (
	StatusPending          Status = "Pending"
	StatusApproved         Status = "Approved"
	StatusPaymentSubmitted Status = "Payment Submitted"
	StatusPaymentVerified  Status = "Payment Verified"
	StatusPaid             Status = "Paid"
	StatusReleased         Status = "Released"
	StatusRejected         Status = "Rejected"
)

// Terminal reports whether no transition is defined out of s.
func (s Status) Terminal() bool {
	return s == StatusReleased || s == StatusRejected
}

// PaidEquivalent reports whether s satisfies the payment step: either a staff
// member confirmed a submitted proof (Paid) or the document was free and the
// approval fast path verified it synthetically (Payment Verified).
func (s Status) PaidEquivalent() bool {
	return s == StatusPaid || s == StatusPaymentVerified
}

// ParseStatus validates a raw status value from a request body or a stored row.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusApproved, StatusPaymentSubmitted,
		StatusPaymentVerified, StatusPaid, StatusReleased, StatusRejected:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}
