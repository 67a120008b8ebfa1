// Package adapter defines the event-publication boundary for stage
// transitions.
//
// Adapters notify downstream systems (schedulers, dashboards) that a run
// folder changed lifecycle stage. Publication is best-effort: the stage
// engine logs a failed publish and carries on, since the filesystem move
// has already happened.
package adapter

import "context"

// TransitionEvent is the payload published after a successful move.
type TransitionEvent struct {
	EventType   string `json:"event_type"` // always "stage_transition"
	RunFolder   string `json:"run_folder"`
	From        string `json:"from"`
	To          string `json:"to"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Actor       string `json:"actor,omitempty"`
	Timestamp   string `json:"timestamp"` // ISO 8601
}

// EventType is the type discriminant carried by every transition event.
const EventType = "stage_transition"

// Adapter publishes stage-transition events to a downstream system.
type Adapter interface {
	// Publish sends a transition event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *TransitionEvent) error

	// Close releases adapter resources.
	Close() error
}
