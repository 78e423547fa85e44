package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events that must be retained for review:
	// every policy decision made about a credential.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring, such as
	// rejected service tokens.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for operational visibility.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. It never carries
// the PIN or the personal dates it was checked against.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	// Subject identifies whose PIN was checked, as supplied by the caller.
	Subject string
	// Caller is the service-token subject that made the request.
	Caller   string
	Action   string
	Decision string
	Reason   string
	// RequestID correlates the event with the HTTP request logs.
	RequestID string
	ClientIP  string
	Device    string
}

type AuditEvent string

const (
	EventPINStrengthChecked AuditEvent = "pin_strength_checked"
	EventPINBatchChecked    AuditEvent = "pin_batch_checked"
	EventAuthFailed         AuditEvent = "auth_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventPINStrengthChecked: CategoryCompliance,
	EventPINBatchChecked:    CategoryOperations,
	EventAuthFailed:         CategorySecurity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
