package model

import "time"

// Session holds the identity resolved by the one-time startup handshake.
// It is written by the identity resolver exactly once per cold start and
// is read-only afterwards; a ban verdict is sticky until the next start.
type Session struct {
	Identity       string
	IsAdmin        bool
	Banned         bool
	BanReason      string
	Authenticating bool
}

// CachedIdentity is the durable identity fallback kept in the flag store.
// It is sent to the backend when no signed host payload is available.
type CachedIdentity struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
}

func (c *CachedIdentity) IsZero() bool { return c == nil || c.ID == "" }
