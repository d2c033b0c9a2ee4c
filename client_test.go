package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(Config{URL: srv.URL, APIKey: "secret", Timeout: "5s"}, zap.NewNop())
}

func TestListRecordsUnwrapsEnvelopes(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/customers.json", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "acme", r.URL.Query().Get("name"))

		io.WriteString(w, `[
			{"customer": {"id": 1, "name": "Acme", "archived": false}},
			{"customer": {"id": 2, "name": "Acme Corp", "hourly_rate": 1050}}
		]`)
	})

	query := url.Values{}
	query.Set("name", "acme")

	records, err := client.ListRecords(context.Background(), EntityCustomer, query)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme", records[0].String("name"))
	assert.Equal(t, int64(1050), records[1].Int("hourly_rate"))
}

func TestListRecordsRejectsWrongEnvelope(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"project": {"id": 1}}]`)
	})

	_, err := client.ListRecords(context.Background(), EntityCustomer, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer")
}

func TestListRecordsSurfacesAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error": "access denied"}`)
	})

	_, err := client.ListRecords(context.Background(), EntityCustomer, nil)
	require.Error(t, err)
	// the service message reaches the user verbatim
	assert.Equal(t, "access denied", err.Error())
}

func TestListRecordsStatusWithoutBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListRecords(context.Background(), EntityTimeEntry, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCreateRecordWrapsPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/time_entries.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Contains(t, payload, "time_entry")
		assert.Equal(t, int64(75), payload["time_entry"].Int("minutes"))

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"time_entry": {"id": 99, "minutes": 75, "date_at": "2026-08-24"}}`)
	})

	created, err := client.CreateRecord(context.Background(), EntityTimeEntry, Record{"minutes": 75})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.Int("id"))
}

func TestUpdateRecordPatchesByID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/projects/7.json", r.URL.Path)

		var payload map[string]Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, true, payload["project"].Bool("archived"))

		w.WriteHeader(http.StatusOK)
	})

	updated, err := client.UpdateRecord(context.Background(), EntityProject, 7, Record{"archived": true})
	require.NoError(t, err)
	// empty response body: the submitted fields come back
	assert.Equal(t, true, updated.Bool("archived"))
}

func TestClientHonorsContextCancellation(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListRecords(ctx, EntityCustomer, nil)
	require.Error(t, err)
}
