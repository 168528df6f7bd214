// File: internal/infra/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"telegram-miniapp-gate/internal/config"
	"telegram-miniapp-gate/internal/domain/model"
	"telegram-miniapp-gate/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.BackendAPI = (*Client)(nil)

// Header names the backend expects on gate-related calls.
const (
	headerInitData    = "X-Telegram-Init-Data"
	headerCachedUser  = "X-Cached-User-Id"
	headerDeviceID    = "X-Device-Id"
	headerFingerprint = "X-Device-Fingerprint"
)

// Client talks to the external backend API. It layers nothing on top of
// the transport: no retries and no deadline beyond http.Client's own
// timeout, so failure policy stays with the callers.
type Client struct {
	base string
	http *http.Client
	log  *zerolog.Logger
}

func NewClient(cfg config.BackendConfig, logger *zerolog.Logger) *Client {
	compLog := logger.With().Str("component", "BackendClient").Logger()
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
		log:  &compLog,
	}
}

type authBody struct {
	InitData     string `json:"initData,omitempty"`
	CachedUserID string `json:"cachedUserId,omitempty"`
	StartParam   string `json:"startParam,omitempty"`
}

func (c *Client) AppSettings(ctx context.Context) (*model.AppSettings, error) {
	var out model.AppSettings
	if err := c.do(ctx, http.MethodGet, "/api/app-settings", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("app settings: %w", err)
	}
	return &out, nil
}

func (c *Client) CheckCountry(ctx context.Context, m adapter.IdentityMaterial) (*adapter.CountryResult, error) {
	hdr := http.Header{}
	if m.InitData != "" {
		hdr.Set(headerInitData, m.InitData)
	}
	if m.CachedID != "" {
		hdr.Set(headerCachedUser, m.CachedID)
	}
	var out adapter.CountryResult
	if err := c.do(ctx, http.MethodGet, "/api/check-country", hdr, nil, &out); err != nil {
		return nil, fmt.Errorf("check country: %w", err)
	}
	return &out, nil
}

func (c *Client) AuthTelegram(ctx context.Context, req *adapter.AuthRequest) (*adapter.AuthResult, error) {
	hdr := http.Header{}
	hdr.Set(headerDeviceID, req.DeviceID)
	hdr.Set(headerFingerprint, req.Fingerprint)
	body := authBody{
		InitData:     req.Material.InitData,
		CachedUserID: req.Material.CachedID,
		StartParam:   req.Referral,
	}
	var out adapter.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/telegram", hdr, body, &out); err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, hdr http.Header, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}
