package lifecycle

import (
	"errors"
	"time"
)

var (
	// ErrInvalidStatus marks a status value outside the enumeration.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition marks a (from, to) pair the table does not define.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrTerminal marks an attempt to move a request out of Released or Rejected.
	ErrTerminal = errors.New("request is in a terminal status")
	// ErrNotAllowed marks an actor whose role does not gate the transition.
	ErrNotAllowed = errors.New("role not allowed for this transition")
	// ErrNotOwner marks a payment submission by anyone but the owning resident.
	ErrNotOwner = errors.New("only the requesting resident may submit payment")
	// ErrSnapshotRequired marks an approval attempted without resident data.
	ErrSnapshotRequired = errors.New("resident snapshot required for approval")
	// ErrPaymentRequired marks a payment submission without payment details.
	ErrPaymentRequired = errors.New("payment details required")
)

// ResidentSnapshot is the immutable copy of resident identity fields captured
// at approval. Certificates render from it regardless of later edits to the
// live resident profile.
type ResidentSnapshot struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Address   string    `json:"address"`
	Birthdate time.Time `json:"birthdate"`
}

// PaymentDetails records how a request was paid. Method is "GCash" for
// proof-of-payment submissions and "Free" for the zero-amount fast path.
type PaymentDetails struct {
	Method        string    `json:"method"`
	TransactionID string    `json:"transactionId,omitempty"`
	PaidAt        time.Time `json:"paidAt"`
	ProofPath     string    `json:"proofPath,omitempty"`
}

// Request is the state machine's view of a document request, decoupled from
// storage.
type Request struct {
	OwnerResidentID uint
	AmountCentavos  int64
	Status          Status
	ApprovedAt      *time.Time
	ReleasedAt      *time.Time
	Snapshot        *ResidentSnapshot
	Payment         *PaymentDetails
}

// Outcome is the full result of a transition: the fields the caller must
// persist. Existing dates and payloads carry forward untouched.
type Outcome struct {
	Status     Status
	ApprovedAt *time.Time
	ReleasedAt *time.Time
	Snapshot   *ResidentSnapshot
	Payment    *PaymentDetails
}

// Allowed checks legality of driving a request with the given owner from cur
// to next as actor. It returns nil or one of ErrTerminal, ErrInvalidTransition,
// ErrNotAllowed, ErrNotOwner. The check happens entirely before any store
// mutation, so a denied transition has no partial effect.
func Allowed(cur, next Status, actor Actor, ownerResidentID uint) error {
	if cur.Terminal() {
		return ErrTerminal
	}
	staffGate := func(ok bool) error {
		if ok || actor.SuperAdmin {
			return nil
		}
		return ErrNotAllowed
	}
	switch {
	case cur == StatusPending && next == StatusApproved:
		return staffGate(actor.Role.CanApprove())
	case cur == StatusPending && next == StatusRejected:
		return staffGate(actor.Role.CanApprove())
	case cur == StatusApproved && next == StatusRejected:
		return staffGate(actor.Role.CanApprove())
	case cur == StatusApproved && next == StatusPaymentSubmitted:
		if actor.ResidentID == 0 || actor.ResidentID != ownerResidentID {
			return ErrNotOwner
		}
		return nil
	case (cur == StatusApproved || cur == StatusPaymentSubmitted) && next == StatusPaid:
		return staffGate(actor.Role.CanConfirmPayment())
	case (cur == StatusPaid || cur == StatusPaymentVerified) && next == StatusReleased:
		return staffGate(actor.Role.CanRelease())
	}
	return ErrInvalidTransition
}

// Apply validates the transition and computes the outcome. snap must carry the
// live resident fields when approving a request that has no snapshot yet; pay
// must carry the proof details when submitting payment. Apply never performs
// I/O and never mutates req.
//
// Zero-amount fast path: approving a free document lands directly on
// Payment Verified with a synthetic Free payment detail, in the same outcome,
// so the record is never observable as Approved with amount 0 across
// transactions.
func Apply(req Request, target Status, actor Actor, now time.Time, snap *ResidentSnapshot, pay *PaymentDetails) (Outcome, error) {
	out := Outcome{
		Status:     req.Status,
		ApprovedAt: req.ApprovedAt,
		ReleasedAt: req.ReleasedAt,
		Snapshot:   req.Snapshot,
		Payment:    req.Payment,
	}
	if err := Allowed(req.Status, target, actor, req.OwnerResidentID); err != nil {
		return out, err
	}
	out.Status = target
	switch target {
	case StatusApproved:
		t := now
		out.ApprovedAt = &t
		if out.Snapshot == nil {
			if snap == nil {
				return Outcome{}, ErrSnapshotRequired
			}
			s := *snap
			out.Snapshot = &s
		}
		if req.AmountCentavos == 0 {
			out.Status = StatusPaymentVerified
			out.Payment = &PaymentDetails{Method: "Free", PaidAt: now}
		}
	case StatusPaymentSubmitted:
		if pay == nil || pay.Method == "" || pay.TransactionID == "" {
			return Outcome{}, ErrPaymentRequired
		}
		p := *pay
		if p.PaidAt.IsZero() {
			p.PaidAt = now
		}
		out.Payment = &p
	case StatusReleased:
		t := now
		out.ReleasedAt = &t
	}
	return out, nil
}
