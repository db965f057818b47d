package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sivik-storefront/shop-svc/internal/domain"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PartnerClient talks to the external food platform.
type PartnerClient struct {
	client HTTPClient
}

func NewPartnerClient(client HTTPClient) *PartnerClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &PartnerClient{client: client}
}

// PushMenu sends the export once. A non-2xx answer is not an error here;
// the caller decides what the status means.
func (c *PartnerClient) PushMenu(ctx context.Context, url, apiKey string, payload domain.MenuExport) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode menu export: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
