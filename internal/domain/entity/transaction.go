package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

// DocumentRef is the opaque handle of an externally stored file
type DocumentRef struct {
	Ref        string
	UploadedBy string
	UploadedAt time.Time
}

// ValidationRecord is a notary's sign-off or rejection on one uploaded document
type ValidationRecord struct {
	Validated   bool
	ValidatedBy string
	ValidatedAt time.Time
	Notes       string
}

// Meeting is a scheduled appointment between the parties
type Meeting struct {
	ID           string
	Type         MeetingType
	ScheduledAt  time.Time
	Location     string
	Agenda       string
	Participants []string
	Status       MeetingStatus
	CreatedBy    string
	CreatedAt    time.Time
}

// Note is a free-text communication entry
type Note struct {
	ID        string
	AuthorID  string
	Body      string
	Category  NoteCategory
	CreatedAt time.Time
}

// StatusChange records one edge taken through the transition graph
type StatusChange struct {
	From    Status
	To      Status
	ActorID string
	Reason  string
	At      time.Time
}

// Transaction is the aggregate tracking one property purchase from reservation
// to completion or cancellation
type Transaction struct {
	ID                string
	PropertyID        string
	BuyerID           string
	AgentID           string
	NotaryID          string // empty until a notary claims or validates
	Status            Status
	FinalPrice        decimal.NullDecimal
	RequiredDocuments []DocumentType
	Documents         map[DocumentType]DocumentRef
	Validations       map[DocumentType]ValidationRecord
	Meetings          []Meeting
	Notes             []Note
	History           []StatusChange
	CompletedAt       *time.Time
	Version           uint64 // optimistic concurrency token, maintained by the repository
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewTransactionParams holds the values fixed at reservation time
type NewTransactionParams struct {
	ID                string
	PropertyID        string
	BuyerID           string
	AgentID           string
	FinalPrice        decimal.NullDecimal
	RequiredDocuments []DocumentType
}

// Timestamp normalizes t to the precision every storage backend round-trips exactly
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// NewTransaction creates a pending transaction with basic validation
func NewTransaction(params NewTransactionParams, now time.Time) (*Transaction, error) {
	if params.ID == "" || params.PropertyID == "" || params.BuyerID == "" || params.AgentID == "" {
		return nil, fmt.Errorf("%w: transaction, property, buyer and agent ids are required", errs.ErrInvalidRequest)
	}

	required := make(map[DocumentType]bool, len(params.RequiredDocuments))
	for _, d := range params.RequiredDocuments {
		if !d.IsValid() {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidDocumentType, d)
		}
		required[d] = true
	}

	price := params.FinalPrice
	if price.Valid {
		if !price.Decimal.IsPositive() {
			return nil, fmt.Errorf("%w: final price must be positive", errs.ErrInvalidAmount)
		}
		price.Decimal = NormalizePrice(price.Decimal)
	}

	ts := Timestamp(now)
	return &Transaction{
		ID:                params.ID,
		PropertyID:        params.PropertyID,
		BuyerID:           params.BuyerID,
		AgentID:           params.AgentID,
		Status:            StatusPending,
		FinalPrice:        price,
		RequiredDocuments: canonicalDocumentTypes(required),
		Documents:         map[DocumentType]DocumentRef{},
		Validations:       map[DocumentType]ValidationRecord{},
		Meetings:          []Meeting{},
		Notes:             []Note{},
		History:           []StatusChange{},
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}, nil
}

// IsActive reports whether the transaction is still in a non-terminal state
func (t *Transaction) IsActive() bool {
	return !t.Status.IsTerminal()
}

// IsRequired reports whether d counts toward completion progress
func (t *Transaction) IsRequired(d DocumentType) bool {
	for _, r := range t.RequiredDocuments {
		if r == d {
			return true
		}
	}
	return false
}

// HasNotary reports whether a notary is bound to the transaction
func (t *Transaction) HasNotary() bool {
	return t.NotaryID != ""
}

// Clone returns a deep copy so callers never share mutable state with a store
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t

	c.RequiredDocuments = append([]DocumentType{}, t.RequiredDocuments...)

	c.Documents = make(map[DocumentType]DocumentRef, len(t.Documents))
	for k, v := range t.Documents {
		c.Documents[k] = v
	}
	c.Validations = make(map[DocumentType]ValidationRecord, len(t.Validations))
	for k, v := range t.Validations {
		c.Validations[k] = v
	}

	c.Meetings = make([]Meeting, len(t.Meetings))
	for i, m := range t.Meetings {
		m.Participants = append([]string{}, m.Participants...)
		c.Meetings[i] = m
	}
	c.Notes = append([]Note{}, t.Notes...)
	c.History = append([]StatusChange{}, t.History...)

	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		c.CompletedAt = &completed
	}
	return &c
}

// touch refreshes UpdatedAt
func (t *Transaction) touch(now time.Time) {
	t.UpdatedAt = now
}

func (t *Transaction) appendNote(authorID, body string, category NoteCategory, now time.Time) Note {
	note := Note{
		ID:        fmt.Sprintf("%s-note-%d", t.ID, len(t.Notes)+1),
		AuthorID:  authorID,
		Body:      body,
		Category:  category,
		CreatedAt: now,
	}
	t.Notes = append(t.Notes, note)
	return note
}
