package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

func TestGenerateParsesCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "how many clearances")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Three clearances this month."}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	got, err := c.Generate(context.Background(), "how many clearances", `{"requests":[]}`)
	require.NoError(t, err)
	assert.Equal(t, "Three clearances this month.", got)
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad api key"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong", "test-model", zap.NewNop())
	_, err := c.Generate(context.Background(), "anything", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad api key")
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "test-model", zap.NewNop())
	_, err := c.Generate(context.Background(), "anything", "{}")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestBuildDataset(t *testing.T) {
	reqs := []models.DocumentRequest{
		{
			ReferenceNo:    "BRGY-260829001",
			DocumentType:   string(lifecycle.DocBarangayClearance),
			AmountCentavos: 5000,
			Status:         string(lifecycle.StatusPending),
			SubmittedAt:    time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		},
		{
			ReferenceNo:    "BRGY-260829002",
			DocumentType:   string(lifecycle.DocIndigency),
			AmountCentavos: 0,
			Status:         string(lifecycle.StatusPending),
			SubmittedAt:    time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		},
	}
	raw, err := BuildDataset("San Isidro", 120, reqs)
	require.NoError(t, err)

	var ds Dataset
	require.NoError(t, json.Unmarshal([]byte(raw), &ds))
	assert.Equal(t, "San Isidro", ds.Barangay)
	assert.Equal(t, int64(120), ds.ResidentCount)
	assert.Equal(t, int64(2), ds.StatusCounts["Pending"])
	require.Len(t, ds.Requests, 2)
	assert.Equal(t, "50.00", ds.Requests[0].Amount)
}
