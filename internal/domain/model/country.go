package model

// CountryStatus tracks the geographic gate for the current user.
// Blocked defaults to false so a failed check never locks anyone out.
type CountryStatus struct {
	// Code is the resolved ISO 3166-1 alpha-2 country code.
	// Empty until the first successful check.
	Code     string
	Blocked  bool
	Checking bool
}

// BlockAction is the verb carried by a live country-block event.
type BlockAction string

const (
	BlockActionBlocked   BlockAction = "blocked"
	BlockActionUnblocked BlockAction = "unblocked"
)

// CountryBlockEvent is the payload of the in-process countryBlockChanged
// channel. Consumers must ignore events whose code does not match the
// currently resolved country of the current user.
type CountryBlockEvent struct {
	Action      BlockAction `json:"action"`
	CountryCode string      `json:"countryCode"`
}
