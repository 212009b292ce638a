package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents the database model for purchase transactions.
// Nested collections are JSON text columns encoded by gorm's json serializer
// and always rewritten together.
type Transaction struct {
	ID                string                      `gorm:"primaryKey;size:128"`
	PropertyID        string                      `gorm:"not null;size:128;index"`
	BuyerID           string                      `gorm:"not null;size:128;index"`
	AgentID           string                      `gorm:"not null;size:128;index"`
	NotaryID          string                      `gorm:"not null;size:128;default:'';index"`
	Status            string                      `gorm:"not null;size:32;index"`
	FinalPrice        decimal.NullDecimal         `gorm:"type:numeric(18,2)"`
	RequiredDocuments []string                    `gorm:"serializer:json;type:text;not null"`
	Documents         map[string]DocumentRecord   `gorm:"serializer:json;type:text;not null"`
	Validations       map[string]ValidationRecord `gorm:"serializer:json;type:text;not null"`
	Meetings          []MeetingRecord             `gorm:"serializer:json;type:text;not null"`
	Notes             []NoteRecord                `gorm:"serializer:json;type:text;not null"`
	History           []StatusChangeRecord        `gorm:"serializer:json;type:text;not null"`
	CompletedAt       *time.Time
	Version           uint64    `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime:false;index"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// JSON shapes of the nested collections. They are kept separate from the
// entity types so column layout does not change when the entity gains fields.

// DocumentRecord is one uploaded document reference
type DocumentRecord struct {
	Ref        string    `json:"ref"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ValidationRecord is one notary decision
type ValidationRecord struct {
	Validated   bool      `json:"validated"`
	ValidatedBy string    `json:"validated_by"`
	ValidatedAt time.Time `json:"validated_at"`
	Notes       string    `json:"notes,omitempty"`
}

// MeetingRecord is one scheduled meeting
type MeetingRecord struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Location     string    `json:"location,omitempty"`
	Agenda       string    `json:"agenda,omitempty"`
	Participants []string  `json:"participants"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// NoteRecord is one communication entry
type NoteRecord struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusChangeRecord is one edge of the status history
type StatusChangeRecord struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID string    `json:"actor_id"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}
