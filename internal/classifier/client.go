// Package classifier wraps the external content-classification service.
// The verdict shape is the only contract consumed here; scoring policy
// lives in the moderation service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Verdict is the classifier's judgment of a piece of text.
type Verdict struct {
	Flagged    bool               `json:"flagged"`
	Categories map[string]bool    `json:"categories"`
	Scores     map[string]float64 `json:"scores"`
}

// Client classifies post text. Implementations must apply their own
// deadline; callers never wait on them inside a request path.
type Client interface {
	Classify(ctx context.Context, text string, postID, authorID uuid.UUID) (*Verdict, error)
}

type request struct {
	Text     string `json:"text"`
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

// HTTPClient calls a webhook-style classification endpoint.
type HTTPClient struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewHTTPClient(url, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Classify(ctx context.Context, text string, postID, authorID uuid.UUID) (*Verdict, error) {
	payload, err := json.Marshal(request{
		Text:     text,
		PostID:   postID.String(),
		AuthorID: authorID.String(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, body)
	}

	var verdict Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, fmt.Errorf("malformed classifier response: %w", err)
	}

	return &verdict, nil
}
