package models

// Requests for the dashboard feed HTTP endpoints. Defined in domain for consistency and reuse.

type RecentEventsRequest struct {
	Hours    int    `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=168"`
	Limit    int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
	Category string `query:"category" json:"category" validate:"omitempty,oneof=MONETARY_POLICY MACRO_DATA GEOPOLITICAL CORPORATE MARKET_STRUCTURE REGULATORY"`
	MinLevel string `query:"min_level" json:"min_level" validate:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW NOISE"`
}

type CriticalEventsRequest struct {
	Hours int `query:"hours" json:"hours" default:"6" validate:"gte=1,lte=168"`
	Limit int `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
}

type EventCountsRequest struct {
	Hours int `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=168"`
}

// EventCounts aggregates feed activity for the dashboard header.
type EventCounts struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
	ByPriority map[string]int64 `json:"by_priority"`
}
