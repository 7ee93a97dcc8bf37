package insight

import (
	"encoding/json"
	"fmt"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

// Dataset is the compact view of barangay records sent to the AI service.
// Only fields a report would cite are included; no credentials, no contact
// details, no proof paths.
type Dataset struct {
	Barangay      string           `json:"barangay"`
	ResidentCount int64            `json:"residentCount"`
	StatusCounts  map[string]int64 `json:"statusCounts"`
	Requests      []requestDigest  `json:"requests"`
}

type requestDigest struct {
	Reference string `json:"reference"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	Submitted string `json:"submitted"`
}

// BuildDataset serializes the request sample plus aggregates into the JSON
// document the prompt embeds.
func BuildDataset(barangayName string, residentCount int64, requests []models.DocumentRequest) (string, error) {
	ds := Dataset{
		Barangay:      barangayName,
		ResidentCount: residentCount,
		StatusCounts:  map[string]int64{},
		Requests:      make([]requestDigest, 0, len(requests)),
	}
	for _, r := range requests {
		ds.StatusCounts[r.Status]++
		ds.Requests = append(ds.Requests, requestDigest{
			Reference: r.ReferenceNo,
			Type:      r.DocumentType,
			Amount:    lifecycle.FormatAmount(r.AmountCentavos),
			Status:    r.Status,
			Submitted: r.SubmittedAt.UTC().Format("2006-01-02"),
		})
	}
	b, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("marshal dataset: %w", err)
	}
	return string(b), nil
}
