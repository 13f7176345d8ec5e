package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter          EventType = "step_enter"
	EventStepLeave          EventType = "step_leave"
	EventCollaboratorCall   EventType = "collaborator_call"
	EventCollaboratorReturn EventType = "collaborator_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent represents entry or exit from a controller step.
type StepEvent struct {
	EventBase
	Step   Step   `json:"step"`
	Intent Intent `json:"intent,omitempty"`
}

// CollaboratorEvent represents a call to the ticket source or the language model.
type CollaboratorEvent struct {
	EventBase
	Step         Step          `json:"step"`
	Collaborator string        `json:"collaborator"` // "tickets" or "model"
	Operation    string        `json:"operation"`
	Duration     time.Duration `json:"duration,omitempty"`
	Err          error         `json:"-"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnStepEnter          func(context.Context, *StepEvent)
	OnStepLeave          func(context.Context, *StepEvent)
	OnCollaboratorCall   func(context.Context, *CollaboratorEvent)
	OnCollaboratorReturn func(context.Context, *CollaboratorEvent)
}
