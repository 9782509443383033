// Package basecamp delivers generated reports into Basecamp: document
// uploads to a project vault and campfire-style pings to users.
package basecamp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brieflab/brief-analyzer/internal/config"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Client talks to the Basecamp 3 API. A client built without a token is
// disabled; callers must check Enabled before use.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	accountID string
	token     string
	timeout   time.Duration
}

// NewClient builds a Basecamp client from the configuration.
func NewClient(cfg *config.Config) *Client {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.RetryMax = 3
	client.RetryWaitMin = time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil

	return &Client{
		http:      client,
		baseURL:   strings.TrimSuffix(cfg.BasecampBaseURL, "/"),
		accountID: cfg.BasecampAccountID,
		token:     cfg.BasecampToken,
		timeout:   time.Duration(cfg.APITimeout) * time.Second,
	}
}

// Enabled reports whether the client has credentials to act with.
func (c *Client) Enabled() bool {
	return c.token != "" && c.accountID != ""
}

// UploadDocument creates a document with the given title and body in the
// project's vault.
func (c *Client) UploadDocument(ctx context.Context, projectID, title, body string) error {
	payload := map[string]string{
		"title":   title,
		"content": body,
		"status":  "active",
	}

	url := fmt.Sprintf("%s/%s/buckets/%s/vaults/documents.json", c.baseURL, c.accountID, projectID)
	return c.post(ctx, url, payload)
}

// NotifyUser pings a Basecamp user with a short message.
func (c *Client) NotifyUser(ctx context.Context, basecampUserID, message string) error {
	payload := map[string]string{
		"content": message,
	}

	url := fmt.Sprintf("%s/%s/pings/%s/messages.json", c.baseURL, c.accountID, basecampUserID)
	return c.post(ctx, url, payload)
}

func (c *Client) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling basecamp payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building basecamp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "brief-analyzer (ops@brieflab.example)")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error calling basecamp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("basecamp returned status %d", resp.StatusCode)
	}

	return nil
}
