// File: internal/domain/ports/adapter/backend.go
package adapter

import (
	"context"

	"telegram-miniapp-gate/internal/domain/model"
)

// IdentityMaterial carries whatever identity the client can currently
// present to the backend: the signed host payload when running inside the
// Telegram host, otherwise the cached identity fallback.
type IdentityMaterial struct {
	InitData string
	CachedID string
}

// CountryResult mirrors GET /api/check-country.
type CountryResult struct {
	Country string `json:"country"`
	Blocked bool   `json:"blocked"`
}

// AuthRequest is the one-time handshake sent to POST /api/auth/telegram.
type AuthRequest struct {
	DeviceID    string
	Fingerprint string
	Material    IdentityMaterial
	Referral    string
}

// AuthResult mirrors the handshake response.
type AuthResult struct {
	Identity          string `json:"userId"`
	IsAdmin           bool   `json:"isAdmin"`
	Banned            bool   `json:"banned"`
	Reason            string `json:"reason,omitempty"`
	ReferralProcessed bool   `json:"referralProcessed,omitempty"`
}

// BackendAPI is the client-side port over the external backend. All calls
// are one network round-trip; callers decide the fail-open policy.
type BackendAPI interface {
	AppSettings(ctx context.Context) (*model.AppSettings, error)
	CheckCountry(ctx context.Context, m IdentityMaterial) (*CountryResult, error)
	AuthTelegram(ctx context.Context, req *AuthRequest) (*AuthResult, error)
}
