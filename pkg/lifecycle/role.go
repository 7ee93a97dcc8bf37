package lifecycle

import "fmt"

// Role is the closed set of account roles. Staff roles each gate a distinct
// subset of transitions; the SuperAdmin flag on Actor is cross-cutting and
// independent of role.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleCaptain   Role = "Barangay Captain"
	RoleSecretary Role = "Secretary"
	RoleTreasurer Role = "Treasurer"
	RoleResident  Role = "Resident"
)

// Staff reports whether r is any role other than Resident.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleCaptain || r == RoleSecretary || r == RoleTreasurer
}

// CanApprove reports whether r may move a Pending request to Approved or
// Rejected. Treasurer deliberately has no approve capability.
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleCaptain || r == RoleSecretary
}

// CanConfirmPayment reports whether r may confirm a payment proof into Paid.
func (r Role) CanConfirmPayment() bool {
	return r == RoleAdmin || r == RoleTreasurer
}

// CanRelease reports whether r may release a paid request.
func (r Role) CanRelease() bool {
	return r == RoleAdmin || r == RoleSecretary
}

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, error) {
	switch r := Role(raw); r {
	case RoleAdmin, RoleCaptain, RoleSecretary, RoleTreasurer, RoleResident:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Actor identifies who is attempting a transition. ResidentID is zero for
// staff accounts without a linked resident profile.
type Actor struct {
	UserID     uint
	ResidentID uint
	Role       Role
	SuperAdmin bool
}
