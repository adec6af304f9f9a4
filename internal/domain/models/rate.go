package models

// RateAction is the decision bucket of a central-bank announcement.
type RateAction string

const (
	RateActionEmergency RateAction = "emergency"
	RateActionHike      RateAction = "hike"
	RateActionCut       RateAction = "cut"
	RateActionHold      RateAction = "hold"
	RateActionUnknown   RateAction = "unknown"
)

// RateDecision is the parsed payload of a monetary-policy event.
// Rate and BpsChange are extracted independently; either may be absent.
type RateDecision struct {
	Bank      string     `json:"bank"`
	Action    RateAction `json:"action"`
	Rate      *float64   `json:"rate,omitempty"`       // percent
	BpsChange *int       `json:"bps_change,omitempty"` // basis points
}
