package models

import (
	"time"

	"github.com/google/uuid"
)

// Capabilities a subject can hold on an object. They are independent:
// holding change does not imply view.
const (
	CapabilityView   = "view"
	CapabilityChange = "change"
	CapabilityDelete = "delete"
)

// Object types a grant can reference.
const (
	ObjectTag     = "tag"
	ObjectEntry   = "entry"
	ObjectThought = "thought"
	ObjectTask    = "task"
)

// Grant is one (subject, object, capability) access-control record.
// No grant means no access.
type Grant struct {
	GrantID    uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SubjectID  uuid.UUID `gorm:"type:char(36);not null;index:idx_grant_tuple,unique;index:idx_grants_lookup" json:"subject_id"`
	ObjectType string    `gorm:"size:16;not null;index:idx_grant_tuple,unique;index:idx_grants_lookup" json:"object_type"`
	Capability string    `gorm:"size:16;not null;index:idx_grant_tuple,unique;index:idx_grants_lookup" json:"capability"`
	ObjectID   uuid.UUID `gorm:"type:char(36);not null;index:idx_grant_tuple,unique" json:"object_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the table name for Grant
func (Grant) TableName() string {
	return "grants"
}
