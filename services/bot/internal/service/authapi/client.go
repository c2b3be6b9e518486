package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCodeNotFound is the normal negative outcome: the code is unknown,
// already used or expired.
var ErrCodeNotFound = errors.New("link code not found")

// Client calls the notification service's link-code validation endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Validate consumes a linking code and returns the owning user id.
func (c *Client) Validate(ctx context.Context, code string) (string, error) {
	url := fmt.Sprintf("%s/api/v1/link-codes/validate", c.baseURL)

	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return "", fmt.Errorf("failed to marshal validate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("notification service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrCodeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode validate response: %w", err)
	}
	if payload.UserID == "" {
		return "", fmt.Errorf("notification service returned empty user id")
	}

	return payload.UserID, nil
}
