package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin     = Actor{UserID: 1, Role: RoleAdmin}
	captain   = Actor{UserID: 2, Role: RoleCaptain}
	secretary = Actor{UserID: 3, Role: RoleSecretary}
	treasurer = Actor{UserID: 4, Role: RoleTreasurer}
	owner     = Actor{UserID: 10, ResidentID: 7, Role: RoleResident}
	stranger  = Actor{UserID: 11, ResidentID: 8, Role: RoleResident}
)

func pendingRequest(doc DocumentType) Request {
	amt, _ := PriceFor(doc)
	return Request{OwnerResidentID: 7, AmountCentavos: amt, Status: StatusPending}
}

func testSnapshot() *ResidentSnapshot {
	return &ResidentSnapshot{
		FirstName: "Maria",
		LastName:  "Santos",
		Address:   "12, Mabini St, Purok 3",
		Birthdate: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	}
}

func TestApprovePricedStopsAtApproved(t *testing.T) {
	now := time.Now()
	for _, doc := range []DocumentType{DocBarangayClearance, DocResidency, DocBusinessPermit, DocGoodMoral} {
		out, err := Apply(pendingRequest(doc), StatusApproved, secretary, now, testSnapshot(), nil)
		require.NoError(t, err, doc)
		assert.Equal(t, StatusApproved, out.Status, doc)
		assert.Nil(t, out.Payment, doc)
		require.NotNil(t, out.ApprovedAt, doc)
		assert.Equal(t, now, *out.ApprovedAt, doc)
	}
}

func TestApproveFreeFastPath(t *testing.T) {
	now := time.Now()
	for _, doc := range []DocumentType{DocIndigency, DocSoloParent} {
		out, err := Apply(pendingRequest(doc), StatusApproved, secretary, now, testSnapshot(), nil)
		require.NoError(t, err, doc)
		assert.Equal(t, StatusPaymentVerified, out.Status, doc)
		require.NotNil(t, out.Payment, doc)
		assert.Equal(t, "Free", out.Payment.Method, doc)
		assert.NotNil(t, out.ApprovedAt, doc)
		assert.NotNil(t, out.Snapshot, doc)
		assert.True(t, out.Status.PaidEquivalent(), doc)
	}
}

func TestApproveRequiresSnapshot(t *testing.T) {
	_, err := Apply(pendingRequest(DocBarangayClearance), StatusApproved, admin, time.Now(), nil, nil)
	assert.ErrorIs(t, err, ErrSnapshotRequired)
}

func TestSnapshotImmutableOnceSet(t *testing.T) {
	frozen := testSnapshot()
	req := Request{
		OwnerResidentID: 7,
		AmountCentavos:  5000,
		Status:          StatusApproved,
		Snapshot:        frozen,
	}
	out, err := Apply(req, StatusPaid, treasurer, time.Now(), &ResidentSnapshot{FirstName: "Edited"}, nil)
	require.NoError(t, err)
	assert.Equal(t, frozen, out.Snapshot)
}

func TestTreasurerCannotApprove(t *testing.T) {
	req := pendingRequest(DocBarangayClearance)
	out, err := Apply(req, StatusApproved, treasurer, time.Now(), testSnapshot(), nil)
	assert.ErrorIs(t, err, ErrNotAllowed)
	assert.Equal(t, StatusPending, out.Status)
}

func TestRejectFromPendingAndApproved(t *testing.T) {
	for _, actor := range []Actor{admin, captain, secretary} {
		out, err := Apply(pendingRequest(DocResidency), StatusRejected, actor, time.Now(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, out.Status)
	}
	approved := Request{OwnerResidentID: 7, AmountCentavos: 7500, Status: StatusApproved, Snapshot: testSnapshot()}
	out, err := Apply(approved, StatusRejected, captain, time.Now(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, out.Status)
}

func TestPaymentSubmissionOwnerOnly(t *testing.T) {
	approved := Request{OwnerResidentID: 7, AmountCentavos: 5000, Status: StatusApproved, Snapshot: testSnapshot()}
	pay := &PaymentDetails{Method: "GCash", TransactionID: "9015 336 412884", ProofPath: "proofs/abc.jpg"}

	out, err := Apply(approved, StatusPaymentSubmitted, owner, time.Now(), nil, pay)
	require.NoError(t, err)
	assert.Equal(t, StatusPaymentSubmitted, out.Status)
	require.NotNil(t, out.Payment)
	assert.Equal(t, "GCash", out.Payment.Method)
	assert.False(t, out.Payment.PaidAt.IsZero())

	_, err = Apply(approved, StatusPaymentSubmitted, stranger, time.Now(), nil, pay)
	assert.ErrorIs(t, err, ErrNotOwner)

	// staff cannot submit payment on a resident's behalf either
	_, err = Apply(approved, StatusPaymentSubmitted, admin, time.Now(), nil, pay)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = Apply(approved, StatusPaymentSubmitted, owner, time.Now(), nil, nil)
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestConfirmPaid(t *testing.T) {
	submitted := Request{OwnerResidentID: 7, AmountCentavos: 5000, Status: StatusPaymentSubmitted,
		Payment: &PaymentDetails{Method: "GCash", TransactionID: "123"}}
	for _, actor := range []Actor{admin, treasurer} {
		out, err := Apply(submitted, StatusPaid, actor, time.Now(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, out.Status)
	}
	_, err := Apply(submitted, StatusPaid, secretary, time.Now(), nil, nil)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestReleaseSkippingPaidRejected(t *testing.T) {
	approved := Request{OwnerResidentID: 7, AmountCentavos: 5000, Status: StatusApproved, Snapshot: testSnapshot()}
	out, err := Apply(approved, StatusReleased, secretary, time.Now(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusApproved, out.Status)
}

func TestReleaseFromPaidEquivalents(t *testing.T) {
	now := time.Now()
	for _, status := range []Status{StatusPaid, StatusPaymentVerified} {
		req := Request{OwnerResidentID: 7, AmountCentavos: 0, Status: status}
		out, err := Apply(req, StatusReleased, secretary, now, nil, nil)
		require.NoError(t, err, status)
		assert.Equal(t, StatusReleased, out.Status, status)
		require.NotNil(t, out.ReleasedAt, status)
		assert.Equal(t, now, *out.ReleasedAt, status)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	targets := []Status{StatusPending, StatusApproved, StatusPaymentSubmitted, StatusPaid, StatusReleased, StatusRejected}
	for _, terminal := range []Status{StatusReleased, StatusRejected} {
		req := Request{OwnerResidentID: 7, AmountCentavos: 5000, Status: terminal}
		for _, target := range targets {
			out, err := Apply(req, target, admin, time.Now(), testSnapshot(), nil)
			assert.ErrorIs(t, err, ErrTerminal, "%s -> %s", terminal, target)
			assert.Equal(t, terminal, out.Status)
		}
	}
}

func TestSuperAdminPassesStaffGates(t *testing.T) {
	super := Actor{UserID: 99, Role: RoleResident, SuperAdmin: true}
	out, err := Apply(pendingRequest(DocBarangayClearance), StatusApproved, super, time.Now(), testSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, out.Status)
}

// Scenario from the workflow handbook: indigency certificate requested by a
// resident, approved by the secretary, expected to land verified and free.
func TestIndigencyScenario(t *testing.T) {
	now := time.Now()
	req := pendingRequest(DocIndigency)
	out, err := Apply(req, StatusApproved, secretary, now, testSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPaymentVerified, out.Status)
	assert.Equal(t, "Free", out.Payment.Method)
	assert.NotNil(t, out.ApprovedAt)
	assert.Equal(t, "Maria", out.Snapshot.FirstName)

	// and it can be released directly, no treasurer involved
	req2 := Request{OwnerResidentID: 7, Status: out.Status, ApprovedAt: out.ApprovedAt, Snapshot: out.Snapshot, Payment: out.Payment}
	out2, err := Apply(req2, StatusReleased, secretary, now, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, out2.Status)
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	_, err := ParseStatus("Archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	s, err := ParseStatus("Payment Submitted")
	require.NoError(t, err)
	assert.Equal(t, StatusPaymentSubmitted, s)
}

func TestPriceTable(t *testing.T) {
	cases := map[DocumentType]int64{
		DocBarangayClearance: 5000,
		DocResidency:         7500,
		DocIndigency:         0,
		DocBusinessPermit:    25000,
		DocGoodMoral:         10000,
		DocSoloParent:        0,
	}
	for doc, want := range cases {
		got, err := PriceFor(doc)
		require.NoError(t, err)
		assert.Equal(t, want, got, doc)
	}
	_, err := PriceFor(DocumentType("Marriage License"))
	assert.Error(t, err)
}
