package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tag labels thoughts and tasks. Names are deliberately not unique,
// two users can each own a "work" tag.
type Tag struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Colour      string    `gorm:"size:24" json:"colour"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Entry is a dated page of the journal. Duplicate dates are allowed.
type Entry struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Date      datatypes.Date `gorm:"not null;index" json:"date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Thoughts  []Thought      `gorm:"constraint:OnDelete:CASCADE" json:"thoughts,omitempty"`
}

// Thought is a single idea inside an entry. Mood and Actions are derived
// fields written by the enrichment worker; Mood is NULL until classified
// and cleared again when a classification is unusable.
type Thought struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	EntryID   uuid.UUID `gorm:"type:char(36);not null;index" json:"entry_id"`
	Content   string    `gorm:"type:text" json:"content"`
	Mood      *int      `json:"mood"`
	Actions   string    `gorm:"type:text" json:"actions"`
	Tags      []Tag     `gorm:"many2many:thought_tags" json:"tags,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a standalone todo item. A task snoozed into the future is
// excluded from active listings.
type Task struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Snooze      *time.Time `json:"snooze"`
	IsEvergreen bool       `gorm:"not null;default:false" json:"is_evergreen"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	IsIdeal     bool       `gorm:"not null;default:false" json:"is_ideal"`
	Tags        []Tag      `gorm:"many2many:task_tags" json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a random id unless the caller supplied one.
func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (e *Entry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (t *Thought) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName overrides the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// TableName overrides the table name for Entry
func (Entry) TableName() string {
	return "entries"
}

// TableName overrides the table name for Thought
func (Thought) TableName() string {
	return "thoughts"
}

// TableName overrides the table name for Task
func (Task) TableName() string {
	return "tasks"
}
