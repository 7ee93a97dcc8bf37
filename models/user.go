package models

import "time"

// User is an authentication-linked identity. Role is one of the closed set in
// pkg/lifecycle (Admin, Barangay Captain, Secretary, Treasurer, Resident); a
// Resident-role user links to exactly one Resident profile.
//
// Soft delete sets Disabled and demotes Role to Resident so staff capability
// is revoked immediately while the credential row survives; removing the
// credential itself is a separate administrative action.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Email          string   `gorm:"size:255;not null;unique"`
	HashedPassword []byte   `gorm:"not null"`
	Name           string   `gorm:"size:255;not null"`
	Role           string   `gorm:"size:32;not null;index"`
	SuperAdmin     bool     `gorm:"default:false"`
	Disabled       bool     `gorm:"default:false;index"`
	BarangayID     uint     `gorm:"index;not null"`
	Barangay       Barangay `gorm:"foreignKey:BarangayID"`
	ResidentID     *uint    `gorm:"uniqueIndex"` // set only for Resident-role users
}
