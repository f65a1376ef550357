// Package hubspot implements the CRM adapter against the HubSpot contacts
// API: search-by-email, create, update. All calls are bounded by the client
// timeout; a timeout surfaces as an error the lead service records as a
// failed sync.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"audit-quiz-service/internal/app"
)

const DefaultBaseURL = "https://api.hubapi.com"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type contactResponse struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type searchResponse struct {
	Total   int               `json:"total"`
	Results []contactResponse `json:"results"`
}

type apiError struct {
	Message string `json:"message"`
}

// FindByEmail searches contacts with an email EQ filter. Returns (nil, nil)
// when no contact matches; callers treat errors as not-found anyway, per the
// sync client contract.
func (c *Client) FindByEmail(ctx context.Context, email string) (*app.Contact, error) {
	body := map[string]any{
		"filterGroups": []map[string]any{
			{
				"filters": []map[string]any{
					{"propertyName": "email", "operator": "EQ", "value": email},
				},
			},
		},
		"properties": []string{"email", "firstname", "lastname", "company", "jobtitle"},
		"limit":      1,
	}

	var result searchResponse
	if err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", body, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	found := result.Results[0]
	return &app.Contact{ID: found.ID, Properties: found.Properties}, nil
}

// Create adds a new contact and returns its ID.
func (c *Client) Create(ctx context.Context, properties map[string]string) (string, error) {
	var created contactResponse
	err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", map[string]any{"properties": properties}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update patches an existing contact's properties.
func (c *Client) Update(ctx context.Context, id string, properties map[string]string) error {
	path := "/crm/v3/objects/contacts/" + id
	return c.do(ctx, http.MethodPatch, path, map[string]any{"properties": properties}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("hubspot %s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("hubspot %s %s: %s", method, path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
