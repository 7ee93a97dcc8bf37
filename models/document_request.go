package models

import "time"

// DocumentRequest is one citizen request for an official document. Status and
// the JSON payloads are owned by pkg/lifecycle; handlers must only mutate them
// through a lifecycle transition.
//
// ResidentSnapshot and PaymentDetails are stored as JSON so a later edit to
// the live resident profile can never alter a certificate already approved.
// The snapshot is written once (at approval) and never updated afterwards.
type DocumentRequest struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	BarangayID uint `gorm:"index;not null"`

	// ReferenceNo doubles as the payment reference the requester quotes in GCash.
	ReferenceNo   string `gorm:"size:32;not null;uniqueIndex"`
	ResidentID    uint   `gorm:"index;not null"`
	RequesterName string `gorm:"size:255;not null"`
	DocumentType  string `gorm:"size:64;not null"`
	Purpose       string `gorm:"size:512"`

	// AmountCentavos is priced from the static table at creation and never
	// recomputed, so a later price change does not touch outstanding requests.
	AmountCentavos int64 `gorm:"not null"`

	Status         string     `gorm:"size:32;not null;index"`
	SubmittedAt    time.Time  `gorm:"not null;index"`
	ApprovedAt     *time.Time
	ReleasedAt     *time.Time
	RejectedReason string `gorm:"size:512"`

	ResidentSnapshot string `gorm:"type:jsonb"` // lifecycle.ResidentSnapshot, empty until approval
	PaymentDetails   string `gorm:"type:jsonb"` // lifecycle.PaymentDetails, empty until paid/submitted
}
