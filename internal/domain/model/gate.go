package model

// GateState enumerates the mutually exclusive full-screen states.
type GateState string

const (
	GateLoading          GateState = "loading"
	GateBanned           GateState = "banned"
	GateCountryBlocked   GateState = "country_blocked"
	GateTelegramRequired GateState = "telegram_required"
	GateReady            GateState = "ready"
)

// GateDecision is the single rendered state derived from Session,
// CountryStatus and SeasonStatus. At most one blocking state applies;
// ties are broken by the orchestrator's evaluation order.
type GateDecision struct {
	State         GateState `json:"state"`
	BanReason     string    `json:"banReason,omitempty"`
	Country       string    `json:"country,omitempty"`
	SeasonOverlay bool      `json:"seasonOverlay"`
	OverlayLocked bool      `json:"overlayLocked"`
}

func (d GateDecision) Blocking() bool {
	return d.State == GateBanned || d.State == GateCountryBlocked || d.State == GateTelegramRequired
}
