package scholar

import "time"

// EventType identifies the event kind.
type EventType int

const (
	// EventCredentialSaved is emitted after a credential was stored.
	EventCredentialSaved EventType = iota
	// EventStage is emitted on every state transition of an orchestrated call.
	EventStage
)

// Stage is a state of an orchestrated call.
type Stage string

const (
	StageIdle               Stage = "idle"
	StageCheckingCredential Stage = "checking_credential"
	StageBuildingRequest    Stage = "building_request"
	StageAwaitingTransport  Stage = "awaiting_transport"
	StageNormalizing        Stage = "normalizing"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

// Event is delivered to a Notifier.
type Event struct {
	Type EventType

	// Message is a human-readable notification (EventCredentialSaved).
	Message string

	// Stage fields (EventStage).
	RequestID  string
	Capability Capability
	Stage      Stage
	// Err is set when Stage is StageFailed.
	Err error

	Time time.Time
}

// Notifier receives events. It is called synchronously and must not block.
type Notifier func(Event)

func (n Notifier) emit(ev Event) {
	if n == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	n(ev)
}
