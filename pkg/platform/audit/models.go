package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture security-relevant actions.
// It is transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp  time.Time         `json:"timestamp"`
	Action     string            `json:"action"`
	Subject    string            `json:"subject"`
	Actor      string            `json:"actor,omitempty"`
	Decision   string            `json:"decision"`
	Reason     string            `json:"reason,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Actions.
const (
	ActionWalletLogin        = "wallet_login"
	ActionShareAccessed      = "share_accessed"
	ActionShareDenied        = "share_denied"
	ActionDomainVerification = "domain_verification"
)

// Decisions.
const (
	DecisionGranted = "granted"
	DecisionDenied  = "denied"
	DecisionFailed  = "failed"
)

// Emitter accepts audit events. Implemented by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Sink persists or forwards events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
