package amqp

import (
	"encoding/json"
	"time"
)

// MutationEvent announces that one state mutation was applied. It carries
// only the operation and entity id; the consumer reads the full snapshot
// from the persistence bridge.
type MutationEvent struct {
	Op        string    `json:"op"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMutationEvent creates an event for the given operation and entity.
func NewMutationEvent(op, entityID string) *MutationEvent {
	return &MutationEvent{
		Op:        op,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *MutationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MutationEventFromJSON creates an event from JSON bytes.
func MutationEventFromJSON(data []byte) (*MutationEvent, error) {
	var event MutationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
