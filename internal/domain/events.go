package domain

import "context"

// SessionEvent describes a session lifecycle change.
type SessionEvent struct {
	UserID string
	Step   Step
}

// StepEvent describes a transition between two steps of one session.
type StepEvent struct {
	UserID string
	From   Step
	To     Step
}

// UpstreamEvent describes a failed backend operation.
type UpstreamEvent struct {
	UserID    string
	Operation string
	Err       error
}

// Hooks defines optional callbacks for engine observability.
// Nil hooks are skipped.
type Hooks struct {
	OnSessionStart  func(context.Context, *SessionEvent)
	OnSessionExpire func(context.Context, *SessionEvent)
	OnStepChange    func(context.Context, *StepEvent)
	OnUpstreamError func(context.Context, *UpstreamEvent)
}
