package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
)

// ReserveRequest opens a transaction on a validated property
type ReserveRequest struct {
	PropertyID string
	AgentID    string
	OfferPrice string // optional, defaults to the listing price
	Note       string // optional, stored as an initial offer note
}

// UploadDocumentRequest attaches an externally stored document
type UploadDocumentRequest struct {
	TransactionID string
	DocumentType  string
	DocumentRef   string
}

// ValidateDocumentRequest records a notary decision on a document
type ValidateDocumentRequest struct {
	TransactionID string
	DocumentType  string
	Approve       bool
	Notes         string
}

// SetStatusRequest asks for an explicit status change
type SetStatusRequest struct {
	TransactionID string
	Status        string
	Reason        string
}

// ScheduleMeetingRequest appends a meeting
type ScheduleMeetingRequest struct {
	TransactionID string
	Type          string
	ScheduledAt   time.Time
	Location      string
	Agenda        string
	Participants  []string
}

// UpdateMeetingRequest starts, completes or cancels a meeting
type UpdateMeetingRequest struct {
	TransactionID string
	MeetingID     string
	Status        string
}

// RescheduleMeetingRequest moves a meeting that has not started
type RescheduleMeetingRequest struct {
	TransactionID string
	MeetingID     string
	ScheduledAt   time.Time
	Location      string
}

// AddNoteRequest appends a communication entry
type AddNoteRequest struct {
	TransactionID string
	Body          string
	Category      string
}

// ProgressView is the progress of one transaction as shown on a dashboard
type ProgressView struct {
	TransactionID    string
	Status           entity.Status
	Progress         entity.Progress
	MissingDocuments []entity.DocumentType
	UpcomingMeetings int
	NextMeeting      *entity.Meeting
}

// Summary aggregates the transactions visible to one actor
type Summary struct {
	Total          int
	Active         int
	ByStatus       map[entity.Status]int
	CompletedValue decimal.Decimal
}

// TransactionUseCase is the façade the API layer calls. Every operation
// takes the acting identity explicitly.
type TransactionUseCase interface {
	Reserve(ctx context.Context, actor entity.Actor, req ReserveRequest) (*entity.Transaction, error)
	UploadDocument(ctx context.Context, actor entity.Actor, req UploadDocumentRequest) (*entity.Transaction, error)
	ValidateDocument(ctx context.Context, actor entity.Actor, req ValidateDocumentRequest) (*entity.Transaction, error)
	SetStatus(ctx context.Context, actor entity.Actor, req SetStatusRequest) (*entity.Transaction, error)
	Claim(ctx context.Context, actor entity.Actor, transactionID string) (*entity.Transaction, error)
	ScheduleMeeting(ctx context.Context, actor entity.Actor, req ScheduleMeetingRequest) (*entity.Transaction, error)
	UpdateMeetingStatus(ctx context.Context, actor entity.Actor, req UpdateMeetingRequest) (*entity.Transaction, error)
	RescheduleMeeting(ctx context.Context, actor entity.Actor, req RescheduleMeetingRequest) (*entity.Transaction, error)
	AddNote(ctx context.Context, actor entity.Actor, req AddNoteRequest) (*entity.Transaction, error)

	Get(ctx context.Context, actor entity.Actor, transactionID string) (*entity.Transaction, error)
	Progress(ctx context.Context, actor entity.Actor, transactionID string) (*ProgressView, error)
	ListForActor(ctx context.Context, actor entity.Actor) ([]*entity.Transaction, error)
	ListByProperty(ctx context.Context, actor entity.Actor, propertyID string) ([]*entity.Transaction, error)
	ListActive(ctx context.Context, actor entity.Actor) ([]*entity.Transaction, error)
	Summary(ctx context.Context, actor entity.Actor) (*Summary, error)

	// Delete is administrative and removes the whole aggregate
	Delete(ctx context.Context, actor entity.Actor, transactionID string) error
}
