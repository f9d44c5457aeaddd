package domain

import "time"

// Outcome is delivered once per request that was not cancelled.
type Outcome struct {
	RequestID  string `json:"request_id"`
	App        AppID  `json:"app"`
	FromMemory bool   `json:"from_memory"`
	Launched   bool   `json:"launched"`
}

// LaunchEvent records a completed dispatch for downstream consumers.
type LaunchEvent struct {
	ID         string    `json:"id"`
	Scope      string    `json:"scope,omitempty"`
	App        AppID     `json:"app"`
	FromMemory bool      `json:"from_memory"`
	Launched   bool      `json:"launched"`
	URL        string    `json:"url,omitempty"`
	At         time.Time `json:"at"`
}
