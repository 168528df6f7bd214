package model

import "time"

// AppSettings mirrors the backend GET /api/app-settings payload.
type AppSettings struct {
	PopupAdsEnabled       bool `json:"popupAdsEnabled"`
	PopupAdInterval       int  `json:"popupAdInterval"` // seconds
	SeasonBroadcastActive bool `json:"seasonBroadcastActive"`
}

// AdScheduleConfig is the slice of AppSettings the ad driver fetches once
// at start. It is immutable for the process lifetime.
type AdScheduleConfig struct {
	Enabled  bool
	Interval time.Duration
}

// AdSchedule converts the raw settings into the driver config.
func (s *AppSettings) AdSchedule() AdScheduleConfig {
	return AdScheduleConfig{
		Enabled:  s.PopupAdsEnabled,
		Interval: time.Duration(s.PopupAdInterval) * time.Second,
	}
}

// AdRequest is the configuration object handed to the advertisement
// boundary for a single presentation.
type AdRequest struct {
	Type         string
	FrequencyCap int
	Cooldown     time.Duration
	Timeout      time.Duration
}
