// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between dopplerd and its clients. These types serve
// as documentation for the event schema; most internal code still
// broadcasts events as map[string]any for flexibility.
package telemetry

import (
	"time"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/doppler"
)

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat     EventType = "heartbeat"
	EventState         EventType = "state"
	EventLog           EventType = "log"
	EventProgress      EventType = "progress"
	EventPassPredicted EventType = "pass_predicted"
	EventPlanReady     EventType = "plan_ready"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type EventType `json:"type"`
	TS   string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching
// the timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. IDLE -> PLANNING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Component string `json:"component,omitempty"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Progress reports completion of a long-running stage, such as averaging
// channel tables across several passes.
type Progress struct {
	Event
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Detail  string  `json:"detail,omitempty"`
}

// PassPredicted announces an upcoming pass selected for planning.
type PassPredicted struct {
	Event
	Satellite string  `json:"satellite"`
	NoradID   int     `json:"norad_id"`
	AOS       string  `json:"aos"`
	LOS       string  `json:"los"`
	MaxElev   float64 `json:"max_elev"`
	DurationS int     `json:"duration_s"`
}

// PlanReady carries a finished channel plan for one transmitter.
type PlanReady struct {
	Event
	Satellite   string            `json:"satellite"`
	Transmitter string            `json:"transmitter"`
	Channels    []doppler.Channel `json:"channels"`
	Switches    int               `json:"switches"`
	PassesUsed  int               `json:"passes_used"`
}
