package model

// SeasonStatus mirrors the global season-end broadcast. Locked means the
// overlay cannot be dismissed by the user.
type SeasonStatus struct {
	BroadcastActive bool
	Locked          bool
}
