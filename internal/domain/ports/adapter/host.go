package adapter

// HostBridge exposes the embedding Telegram host execution context, when
// present. Keep it minimal so other layers can implement it.
type HostBridge interface {
	// Present reports whether a Telegram host bridge was detected.
	Present() bool
	// InitData returns the signed host payload, empty when absent.
	InitData() string
	// StartParam returns the referral start parameter, empty when absent.
	StartParam() string
	// Fingerprint derives a stable device fingerprint from host properties.
	Fingerprint() string
}
