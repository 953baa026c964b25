package airtable

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

	"user-registration/pkg/store"
)

// DefaultBaseURL is the Airtable REST endpoint
const DefaultBaseURL = "https://api.airtable.com/v0"

// Client stores documents as Airtable records; collections map to tables
type Client interface {
	store.DocumentStore
}

type clientImpl struct {
	apiKey     string
	baseID     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new Airtable client. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseID, baseURL string, httpClient *http.Client) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &clientImpl{
		apiKey:     apiKey,
		baseID:     baseID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

type record struct {
	ID     string         `json:"id,omitempty"`
	Fields store.Document `json:"fields"`
}

func (c *clientImpl) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

func (c *clientImpl) CreateDocument(ctx context.Context, table string, doc store.Document) (string, error) {
	if err := store.ValidateCollection(table); err != nil {
		return "", err
	}

	// Format data for Airtable API
	payload := map[string]any{
		"records": []record{{Fields: store.Resolve(doc, c.now())}},
	}

	body, status, err := c.do(ctx, http.MethodPost, c.tableURL(table), payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("error from Airtable API: %s", string(body))
	}

	var response struct {
		Records []record `json:"records"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if len(response.Records) == 0 || response.Records[0].ID == "" {
		return "", fmt.Errorf("error from Airtable API: no record id returned")
	}
	return response.Records[0].ID, nil
}

func (c *clientImpl) GetDocument(ctx context.Context, table, id string) (store.Document, error) {
	body, status, err := c.do(ctx, http.MethodGet, c.tableURL(table)+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%s/%s: %w", table, id, store.ErrNotFound)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("error from Airtable API: %s", string(body))
	}

	var rec record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	if rec.Fields == nil {
		rec.Fields = store.Document{}
	}
	return rec.Fields, nil
}

func (c *clientImpl) UpdateDocument(ctx context.Context, table, id string, fields store.Document) error {
	payload := record{Fields: store.Resolve(fields, c.now())}

	// PATCH only touches the fields sent
	body, status, err := c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+url.PathEscape(id), payload)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%s/%s: %w", table, id, store.ErrNotFound)
	}
	if status != http.StatusOK {
		return fmt.Errorf("error from Airtable API: %s", string(body))
	}
	return nil
}

func (c *clientImpl) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *clientImpl) do(ctx context.Context, method, target string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("error creating payload: %w", err)
		}
		reqBody = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}

	// Add authentication and content type headers
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error calling Airtable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
