package models

import "time"

// Resident is a citizen profile owned by one barangay. Deletion is a hard
// delete of this row; the linked User credential is removed separately.
type Resident struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	BarangayID  uint   `gorm:"index;not null"`
	FirstName   string `gorm:"size:128;not null"`
	MiddleName  string `gorm:"size:128"`
	LastName    string `gorm:"size:128;not null"`
	HouseNo     string `gorm:"size:64"`
	Street      string `gorm:"size:255"`
	Purok       string `gorm:"size:128"`
	Birthdate   time.Time
	CivilStatus string `gorm:"size:32"`
	Occupation  string `gorm:"size:255"`
	Email       string `gorm:"size:255"`
	Phone       string `gorm:"size:64"`
	UserID      *uint  `gorm:"uniqueIndex"` // back-link to the identity, nullable
}

// DisplayName joins the name parts the way they appear on certificates.
func (r Resident) DisplayName() string {
	if r.MiddleName != "" {
		return r.FirstName + " " + r.MiddleName + " " + r.LastName
	}
	return r.FirstName + " " + r.LastName
}

// AddressLine renders the household address fields as a single line.
func (r Resident) AddressLine() string {
	out := ""
	for _, part := range []string{r.HouseNo, r.Street, r.Purok} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}
