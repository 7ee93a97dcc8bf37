package models

import "time"

// PaymentProof is the stored GCash proof-of-payment image for a request,
// kept out-of-band as a file with a path reference (never inlined into the
// request document). The OCR fields are filled best-effort at upload time and
// backfilled by process/proofwatch for anything missed.
type PaymentProof struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	RequestID   uint   `gorm:"index;not null"`
	FileName    string `gorm:"size:255;not null"` // uuid-based stored name
	StorePath   string `gorm:"size:512;not null"`
	ContentType string `gorm:"size:128"`

	// OCR verification results; Checked is true once an OCR pass ran,
	// regardless of whether it found anything.
	Checked           bool    `gorm:"default:false;index"`
	DetectedCentavos  int64   `gorm:"default:0"`
	DetectedReference string  `gorm:"size:64"`
	OCRConfidence     float64 `gorm:"default:0"`
}
