package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

func sampleRequest() models.DocumentRequest {
	return models.DocumentRequest{
		ReferenceNo:    "BRGY-260829001",
		DocumentType:   string(lifecycle.DocBarangayClearance),
		RequesterName:  "Maria Santos",
		AmountCentavos: 5000,
		Status:         string(lifecycle.StatusApproved),
		SubmittedAt:    time.Date(2026, 8, 29, 9, 15, 0, 0, time.UTC),
	}
}

func TestRequestRowRoundTrip(t *testing.T) {
	orig := sampleRequest()
	back, err := RequestFromRow(RequestRowOf(orig))
	require.NoError(t, err)
	assert.Equal(t, orig.ReferenceNo, back.ReferenceNo)
	assert.Equal(t, orig.Status, back.Status)
	assert.Equal(t, orig.AmountCentavos, back.AmountCentavos)
	assert.Equal(t, orig.RequesterName, back.RequesterName)
	assert.Equal(t, orig.DocumentType, back.DocumentType)
	assert.True(t, orig.SubmittedAt.Equal(back.SubmittedAt))
}

func TestRequestFromRowRejectsBadColumns(t *testing.T) {
	_, err := RequestFromRow([]string{"too", "short"})
	assert.Error(t, err)

	row := RequestRowOf(sampleRequest())
	row[3] = "fifty pesos"
	_, err = RequestFromRow(row)
	assert.Error(t, err)

	row = RequestRowOf(sampleRequest())
	row[4] = "Archived"
	_, err = RequestFromRow(row)
	assert.Error(t, err)

	row = RequestRowOf(sampleRequest())
	row[0] = "not-a-reference"
	_, err = RequestFromRow(row)
	assert.Error(t, err)
}

func TestWorkbookCarriesRows(t *testing.T) {
	rows := [][]string{
		RequestRowOf(sampleRequest()),
	}
	data, err := Workbook("Requests", RequestHeader, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Requests")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, RequestHeader, got[0])
	assert.Equal(t, rows[0], got[1])
}

func TestResidentRow(t *testing.T) {
	r := models.Resident{
		FirstName:   "Jose",
		MiddleName:  "P",
		LastName:    "Rizal",
		HouseNo:     "12",
		Street:      "Mabini St",
		Purok:       "Purok 3",
		Birthdate:   time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		CivilStatus: "Single",
		Email:       "jose@example.com",
	}
	row := ResidentRowOf(r)
	require.Len(t, row, len(ResidentHeader))
	assert.Equal(t, "Jose P Rizal", row[0])
	assert.Equal(t, "12, Mabini St, Purok 3", row[1])
	assert.Equal(t, "1990-05-17", row[2])
}
