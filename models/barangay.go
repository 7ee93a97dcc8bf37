package models

import "time"

// Barangay is the tenant: every resident, user and document request belongs to
// exactly one. TrackingPrefix is the prefix of generated reference numbers.
type Barangay struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Name           string `gorm:"size:255;not null;uniqueIndex"`
	Municipality   string `gorm:"size:255"`
	Province       string `gorm:"size:255"`
	CaptainName    string `gorm:"size:255"`
	ContactEmail   string `gorm:"size:255"`
	ContactPhone   string `gorm:"size:64"`
	TrackingPrefix string `gorm:"size:16;not null;default:'BRGY'"`
}
