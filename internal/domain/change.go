package domain

import "time"

// Entity names the record kind affected by a change.
type Entity string

const (
	EntityPerson        Entity = "person"
	EntityMedicalRecord Entity = "medical_record"
	EntityFirestation   Entity = "firestation"
)

// Action names the kind of mutation.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeEvent records a successful mutation of the dataset.
type ChangeEvent struct {
	ID         string    `json:"id"`
	Entity     Entity    `json:"entity"`
	Action     Action    `json:"action"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
}
