// File: internal/infra/adapters/host/telegram.go
package host

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"

	"telegram-miniapp-gate/internal/domain/ports/adapter"
)

var _ adapter.HostBridge = (*Bridge)(nil)

// Environment variables the embedding host hands to the process. An empty
// TELEGRAM_INIT_DATA means the app was opened outside its required host.
const (
	envInitData   = "TELEGRAM_INIT_DATA"
	envStartParam = "TELEGRAM_START_PARAM"
	envPlatform   = "TELEGRAM_PLATFORM"
)

// Bridge reads the Telegram Web App context handed over by the host.
// The init-data payload stays opaque here; only the backend verifies it.
type Bridge struct {
	initData   string
	startParam string
	platform   string
}

// FromEnv detects the host execution context from the environment.
func FromEnv() *Bridge {
	return &Bridge{
		initData:   os.Getenv(envInitData),
		startParam: os.Getenv(envStartParam),
		platform:   os.Getenv(envPlatform),
	}
}

func (b *Bridge) Present() bool      { return b.initData != "" }
func (b *Bridge) InitData() string   { return b.initData }
func (b *Bridge) StartParam() string { return b.startParam }

// Fingerprint derives a stable device fingerprint from host properties.
// It intentionally excludes the init data, which rotates per session.
func (b *Bridge) Fingerprint() string {
	platform := b.platform
	if platform == "" {
		platform = runtime.GOOS
	}
	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte(platform + "|" + host + "|" + runtime.GOARCH))
	return hex.EncodeToString(sum[:16])
}
