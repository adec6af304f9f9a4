package models

// RoutingDecision says what downstream collaborators should do with an event.
// The router itself performs no retries; receivers own their idempotence.
type RoutingDecision struct {
	EventID       string        `json:"event_id"`
	Priority      PriorityLevel `json:"priority"`
	HistoryAppend bool          `json:"history_append"`
	Notify        bool          `json:"notify"`
	Sound         bool          `json:"sound"`
	// Suppressed marks archive-only visibility (NOISE tier).
	Suppressed bool `json:"suppressed"`
}

// BatchResult summarizes one processed poll cycle.
type BatchResult struct {
	BatchID    string `json:"batch_id"`
	Received   int    `json:"received"`
	Rejected   int    `json:"rejected"`
	Routed     int    `json:"routed"`
	Duplicates int    `json:"duplicates"`
	Deferred   int    `json:"deferred"`
}
