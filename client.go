package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// errorResponse is the body the API returns on non-2xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// APIClient talks to the remote time-tracking service. Records come and go
// as flat maps; the caller decides what the attributes mean.
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewAPIClient(cfg Config, log *zap.Logger) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(cfg.BaseURL(), "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		log: log,
	}
}

// ListRecords fetches all records of a kind. The API wraps every element in
// a one-key envelope ({"customer": {...}}); the envelope is stripped here.
func (c *APIClient) ListRecords(ctx context.Context, kind EntityKind, query url.Values) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/%s.json", c.baseURL, kind)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	c.log.Debug("listing records", zap.String("kind", string(kind)), zap.String("url", endpoint))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var wrapped []map[string]Record
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("error decoding %s response: %w", kind, err)
	}

	records := make([]Record, 0, len(wrapped))
	for _, envelope := range wrapped {
		rec, ok := envelope[kind.singular()]
		if !ok {
			return nil, fmt.Errorf("unexpected %s envelope in response", kind.singular())
		}
		records = append(records, rec)
	}

	return records, nil
}

// CreateRecord creates one record and returns it as stored by the service.
func (c *APIClient) CreateRecord(ctx context.Context, kind EntityKind, fields Record) (Record, error) {
	endpoint := fmt.Sprintf("%s/%s.json", c.baseURL, kind)

	payload, err := json.Marshal(map[string]Record{kind.singular(): fields})
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	c.log.Debug("creating record", zap.String("kind", string(kind)))

	body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}

	return c.unwrapOne(kind, body)
}

// UpdateRecord patches a subset of fields on an existing record.
func (c *APIClient) UpdateRecord(ctx context.Context, kind EntityKind, id int64, fields Record) (Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%d.json", c.baseURL, kind, id)

	payload, err := json.Marshal(map[string]Record{kind.singular(): fields})
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	c.log.Debug("updating record", zap.String("kind", string(kind)), zap.Int64("id", id))

	body, err := c.do(ctx, http.MethodPatch, endpoint, payload)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}

	return c.unwrapOne(kind, body)
}

func (c *APIClient) unwrapOne(kind EntityKind, body []byte) (Record, error) {
	var envelope map[string]Record
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("error decoding %s response: %w", kind.singular(), err)
	}
	if rec, ok := envelope[kind.singular()]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("unexpected %s envelope in response", kind.singular())
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "timetally")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	c.log.Debug("request done",
		zap.String("method", method),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var errRes errorResponse
		if err := json.Unmarshal(body, &errRes); err == nil && errRes.Error != "" {
			return nil, fmt.Errorf("%s", errRes.Error)
		}
		return nil, fmt.Errorf("unexpected status %d from %s", res.StatusCode, endpoint)
	}

	return body, nil
}
