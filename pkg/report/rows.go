// Package report renders request and resident listings into spreadsheet
// artifacts. The row codec is a pure function of its input; handlers feed it
// records, it hands back bytes.
package report

import (
	"fmt"
	"time"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

const rowTimeLayout = "2006-01-02 15:04"

// RequestHeader is the column order of a request export. RequestRowOf and
// RequestFromRow must agree with it.
var RequestHeader = []string{
	"Reference No", "Document Type", "Requester", "Amount", "Status", "Submitted",
}

// ResidentHeader is the column order of a resident export.
var ResidentHeader = []string{
	"Name", "Address", "Birthdate", "Civil Status", "Occupation", "Email", "Phone",
}

// RequestRowOf serializes a request into export columns.
func RequestRowOf(r models.DocumentRequest) []string {
	return []string{
		r.ReferenceNo,
		r.DocumentType,
		r.RequesterName,
		lifecycle.FormatAmount(r.AmountCentavos),
		r.Status,
		r.SubmittedAt.UTC().Format(rowTimeLayout),
	}
}

// RequestFromRow rebuilds the exportable fields of a request from one row.
// Round-tripping preserves reference number, document type, requester name,
// amount and status exactly.
func RequestFromRow(cols []string) (models.DocumentRequest, error) {
	if len(cols) != len(RequestHeader) {
		return models.DocumentRequest{}, fmt.Errorf("expected %d columns, got %d", len(RequestHeader), len(cols))
	}
	amt, err := lifecycle.ParseAmount(cols[3])
	if err != nil {
		return models.DocumentRequest{}, fmt.Errorf("column Amount: %w", err)
	}
	if _, err := lifecycle.ParseStatus(cols[4]); err != nil {
		return models.DocumentRequest{}, fmt.Errorf("column Status: %w", err)
	}
	if _, _, _, err := lifecycle.ParseReference(cols[0]); err != nil {
		return models.DocumentRequest{}, fmt.Errorf("column Reference No: %w", err)
	}
	submitted, err := time.Parse(rowTimeLayout, cols[5])
	if err != nil {
		return models.DocumentRequest{}, fmt.Errorf("column Submitted: %w", err)
	}
	return models.DocumentRequest{
		ReferenceNo:    cols[0],
		DocumentType:   cols[1],
		RequesterName:  cols[2],
		AmountCentavos: amt,
		Status:         cols[4],
		SubmittedAt:    submitted.UTC(),
	}, nil
}

// ResidentRowOf serializes a resident into export columns.
func ResidentRowOf(r models.Resident) []string {
	birth := ""
	if !r.Birthdate.IsZero() {
		birth = r.Birthdate.Format("2006-01-02")
	}
	return []string{
		r.DisplayName(),
		r.AddressLine(),
		birth,
		r.CivilStatus,
		r.Occupation,
		r.Email,
		r.Phone,
	}
}
