package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	id "wasl/pkg/domain"
)

// EventCategory drives retention: compliance events are kept for the life
// of the programme, operations events may be pruned.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategoryOperations EventCategory = "operations"
)

// Event is one audited mutation. Keep it transport-agnostic so stores and
// sinks can fan out.
type Event struct {
	ID          uuid.UUID
	Category    EventCategory
	Timestamp   time.Time
	CandidateID id.CandidateID
	// Subject is the human-facing reference, usually the application id.
	Subject   string
	Action    string
	From      string
	To        string
	Decision  string
	Reason    string
	RequestID string
	ActorID   string
	Client    string
}

type AuditEvent string

const (
	EventCandidateCreated      AuditEvent = "candidate_created"
	EventCandidateTransitioned AuditEvent = "candidate_transitioned"
	EventCandidateRejected     AuditEvent = "candidate_force_rejected"
	EventDocumentUploaded      AuditEvent = "document_uploaded"
	EventDocumentVerified      AuditEvent = "document_verified"
	EventDocumentRejected      AuditEvent = "document_rejected"
	EventScreeningRecorded     AuditEvent = "screening_recorded"
	EventCallAttemptLogged     AuditEvent = "call_attempt_logged"
	EventAttendanceRecorded    AuditEvent = "attendance_recorded"
	EventAssessmentRecorded    AuditEvent = "assessment_recorded"
	EventCertificateIssued     AuditEvent = "certificate_issued"
	EventVisaStageUpdated      AuditEvent = "visa_stage_updated"
	EventDepartureRecorded     AuditEvent = "departure_recorded"
	EventBriefingCompleted     AuditEvent = "briefing_completed"
	EventRemittanceRecorded    AuditEvent = "remittance_recorded"
	EventBatchCreated          AuditEvent = "batch_created"
	EventBatchResized          AuditEvent = "batch_resized"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCandidateCreated:      CategoryCompliance,
	EventCandidateTransitioned: CategoryCompliance,
	EventCandidateRejected:     CategoryCompliance,
	EventDocumentVerified:      CategoryCompliance,
	EventDocumentRejected:      CategoryCompliance,
	EventScreeningRecorded:     CategoryCompliance,
	EventCertificateIssued:     CategoryCompliance,
	EventVisaStageUpdated:      CategoryCompliance,
	EventRemittanceRecorded:    CategoryCompliance,
}

// Category returns the category of an action. Unknown actions are operations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store appends audit events. Outbox-backed stores make Append part of the
// caller's transaction.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]Event, error)
}

// OutboxEntry is an audit event waiting to be relayed.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// Outbox is the relay side of an outbox-backed Store.
type Outbox interface {
	Pending(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// payload is the JSON published to Kafka.
type payload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	CandidateID string `json:"candidate_id,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Action      string `json:"action"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Decision    string `json:"decision,omitempty"`
	Reason      string `json:"reason,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
	Client      string `json:"client,omitempty"`
}

// NewOutboxEntry stamps an id and category on event and encodes it. The
// category is always derived from the action.
func NewOutboxEntry(event Event, now time.Time) (OutboxEntry, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}
	event.Category = AuditEvent(event.Action).Category()

	p := payload{
		ID:        event.ID.String(),
		Category:  string(event.Category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		From:      event.From,
		To:        event.To,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
		Client:    event.Client,
	}
	aggregateType, aggregateID := "audit", event.ID.String()
	if !event.CandidateID.IsNil() {
		p.CandidateID = event.CandidateID.String()
		aggregateType, aggregateID = "candidate", p.CandidateID
	}

	body, err := json.Marshal(p)
	if err != nil {
		return OutboxEntry{}, err
	}
	return OutboxEntry{
		ID:            event.ID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     event.Action,
		Payload:       body,
		CreatedAt:     now,
	}, nil
}

// DecodeEvent reverses NewOutboxEntry.
func DecodeEvent(body []byte) (Event, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Event{}, err
	}
	e := Event{
		Category:  EventCategory(p.Category),
		Subject:   p.Subject,
		Action:    p.Action,
		From:      p.From,
		To:        p.To,
		Decision:  p.Decision,
		Reason:    p.Reason,
		RequestID: p.RequestID,
		ActorID:   p.ActorID,
		Client:    p.Client,
	}
	if eid, err := uuid.Parse(p.ID); err == nil {
		e.ID = eid
	}
	if ts, err := time.Parse(time.RFC3339Nano, p.Timestamp); err == nil {
		e.Timestamp = ts
	}
	if cid, err := uuid.Parse(p.CandidateID); err == nil {
		e.CandidateID = id.CandidateID(cid)
	}
	return e, nil
}
