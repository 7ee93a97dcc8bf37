package models

// RequestCounter allocates the per-day sequence used in reference numbers.
// Day is YYMMDD. The row is locked FOR UPDATE inside the transaction that
// inserts the request, which makes same-day reference numbers strictly
// increasing and unique per barangay.
type RequestCounter struct {
	ID         uint   `gorm:"primaryKey"`
	BarangayID uint   `gorm:"not null;uniqueIndex:idx_counter_bgy_day"`
	Day        string `gorm:"size:6;not null;uniqueIndex:idx_counter_bgy_day"`
	Seq        int    `gorm:"not null;default:0"`
}
