package repository

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

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// RemoteStore talks to another briefing server's /api/save and /api/load
// endpoints. A 404 from load is "not found"; any other failure is a transport
// error. A save answered with success=false becomes a *domain.SaveError
// carrying the server's message.
type RemoteStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemoteStore(baseURL, apiKey string) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *RemoteStore) Store(ctx context.Context, key string, rec domain.ClientRecord) error {
	if err := validKey(key); err != nil {
		return err
	}
	rec.Normalize()
	jsonData, err := json.Marshal(domain.SaveRequest{Username: key, Data: &rec})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/save", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.SaveError{Message: "Could not reach the briefing server", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var saveResp domain.SaveResponse
	if err := json.Unmarshal(body, &saveResp); err != nil {
		return &domain.SaveError{Message: fmt.Sprintf("briefing server returned status %d", resp.StatusCode), Err: err}
	}
	if !saveResp.Success {
		return &domain.SaveError{Message: saveResp.Message}
	}
	return nil
}

func (c *RemoteStore) Fetch(ctx context.Context, key string) (domain.ClientRecord, bool, error) {
	if err := validKey(key); err != nil {
		return domain.ClientRecord{}, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/load/"+url.PathEscape(key), nil)
	if err != nil {
		return domain.ClientRecord{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ClientRecord{}, false, fmt.Errorf("failed to call briefing server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ClientRecord{}, false, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ClientRecord{}, false, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ClientRecord{}, false, fmt.Errorf("briefing server returned status %d: %s", resp.StatusCode, string(body))
	}

	var loadResp domain.LoadResponse
	if err := json.Unmarshal(body, &loadResp); err != nil {
		return domain.ClientRecord{}, false, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !loadResp.Success || loadResp.Data == nil {
		return domain.ClientRecord{}, false, nil
	}
	rec := *loadResp.Data
	rec.Normalize()
	return rec, true, nil
}

func (c *RemoteStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("briefing server health returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *RemoteStore) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
