package rooms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Occupant is one bed assignment in a room. UserID is nil for vacant beds.
type Occupant struct {
	UserID *string `json:"user_id"`
	Bed    int     `json:"bed"`
}

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

// Occupants resolves who currently lives in a room via the room service.
func (c *Client) Occupants(ctx context.Context, roomID string) ([]Occupant, error) {
	url := fmt.Sprintf("%s/api/v1/rooms/%s/occupants", c.baseURL, roomID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build occupants request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("room service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("room service returned status %d for room %s", resp.StatusCode, roomID)
	}

	var payload struct {
		Occupants []Occupant `json:"occupants"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode occupants response: %w", err)
	}

	return payload.Occupants, nil
}
