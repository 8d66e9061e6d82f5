// Package maplerad is a read-side client for the Maplerad v1 API, covering the
// detail fetches the reconciliation pipeline needs. Money movement is never
// initiated from here.
package maplerad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20 // 1 MiB

// Config holds client settings.
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Client calls the provider's read endpoints with bearer auth and a bounded
// timeout.
type Client struct {
	baseURL   string
	secretKey string
	httpc     *http.Client
	logger    *slog.Logger
}

// New creates a Maplerad read client.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		httpc:     &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// GetCard fetches card detail by the provider card id. Returns (nil, nil) when
// the provider does not know the card.
func (c *Client) GetCard(ctx context.Context, cardID string) (*Card, error) {
	if cardID == "" {
		return nil, fmt.Errorf("card id is empty")
	}

	var card Card
	found, err := c.get(ctx, "issuing/"+cardID, &card)
	if err != nil {
		return nil, fmt.Errorf("get card %q: %w", cardID, err)
	}
	if !found {
		return nil, nil
	}
	return &card, nil
}

// GetVirtualAccount fetches virtual account detail by provider account id.
func (c *Client) GetVirtualAccount(ctx context.Context, accountID string) (*VirtualAccount, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is empty")
	}

	var account VirtualAccount
	found, err := c.getRaw(ctx, "collections/virtual-account/"+accountID, &account, &account.Raw)
	if err != nil {
		return nil, fmt.Errorf("get virtual account %q: %w", accountID, err)
	}
	if !found {
		return nil, nil
	}
	return &account, nil
}

// GetAccountRequestStatus fetches the provisioning status of an account request.
func (c *Client) GetAccountRequestStatus(ctx context.Context, reference string) (*AccountRequestStatus, error) {
	if reference == "" {
		return nil, fmt.Errorf("reference is empty")
	}

	var status AccountRequestStatus
	found, err := c.get(ctx, "collections/virtual-account/status/"+reference, &status)
	if err != nil {
		return nil, fmt.Errorf("get account request status %q: %w", reference, err)
	}
	if !found {
		return nil, nil
	}
	return &status, nil
}

func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	return c.getRaw(ctx, path, out, nil)
}

// getRaw performs a GET, unwraps the v1 response envelope into out, and when
// raw is non-nil also hands back the untouched data payload. The bool result
// is false for 404s, which callers treat as "provider does not know this".
func (c *Client) getRaw(ctx context.Context, path string, out any, raw *json.RawMessage) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("provider returned %d: %s", resp.StatusCode, providerMessage(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false, fmt.Errorf("decode response envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, fmt.Errorf("decode response data: %w", err)
	}
	if raw != nil {
		*raw = append(json.RawMessage(nil), env.Data...)
	}
	return true, nil
}

// providerMessage extracts a human-readable error from a provider error body.
func providerMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		s = "no response body"
	}
	return s
}
