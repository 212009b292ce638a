package dto

import "time"

// ReserveRequest is the body of POST /transactions
type ReserveRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
	AgentID    string `json:"agentId" binding:"required"`
	OfferPrice string `json:"offerPrice"`
	Note       string `json:"note"`
}

// UploadDocumentRequest is the body of PUT /transactions/:id/documents/:type
type UploadDocumentRequest struct {
	DocumentRef string `json:"documentRef" binding:"required"`
}

// ValidateDocumentRequest is the body of POST /transactions/:id/documents/:type/validation
type ValidateDocumentRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Notes   string `json:"notes"`
}

// StatusRequest is the body of POST /transactions/:id/status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ScheduleMeetingRequest is the body of POST /transactions/:id/meetings
type ScheduleMeetingRequest struct {
	Type         string    `json:"type" binding:"required"`
	ScheduledAt  time.Time `json:"scheduledAt" binding:"required"`
	Location     string    `json:"location"`
	Agenda       string    `json:"agenda"`
	Participants []string  `json:"participants"`
}

// UpdateMeetingRequest is the body of PATCH /transactions/:id/meetings/:meetingId
type UpdateMeetingRequest struct {
	Status string `json:"status" binding:"required"`
}

// RescheduleMeetingRequest is the body of POST /transactions/:id/meetings/:meetingId/reschedule
type RescheduleMeetingRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Location    string    `json:"location"`
}

// AddNoteRequest is the body of POST /transactions/:id/notes
type AddNoteRequest struct {
	Body     string `json:"body" binding:"required"`
	Category string `json:"category"`
}

// DocumentResponse is one stored document reference
type DocumentResponse struct {
	Ref        string    `json:"ref"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
	Required   bool      `json:"required"`
}

// ValidationResponse is one notary decision
type ValidationResponse struct {
	Validated   bool      `json:"validated"`
	ValidatedBy string    `json:"validatedBy"`
	ValidatedAt time.Time `json:"validatedAt"`
	Notes       string    `json:"notes,omitempty"`
}

// MeetingResponse is one scheduled meeting
type MeetingResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Location     string    `json:"location,omitempty"`
	Agenda       string    `json:"agenda,omitempty"`
	Participants []string  `json:"participants"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NoteResponse is one communication entry
type NoteResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusChangeResponse is one edge of the status history
type StatusChangeResponse struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID string    `json:"actorId"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// TransactionResponse is the full transaction view
type TransactionResponse struct {
	ID                string                        `json:"id"`
	PropertyID        string                        `json:"propertyId"`
	BuyerID           string                        `json:"buyerId"`
	AgentID           string                        `json:"agentId"`
	NotaryID          string                        `json:"notaryId,omitempty"`
	Status            string                        `json:"status"`
	FinalPrice        string                        `json:"finalPrice,omitempty"`
	RequiredDocuments []string                      `json:"requiredDocuments"`
	Documents         map[string]DocumentResponse   `json:"documents"`
	Validations       map[string]ValidationResponse `json:"validations"`
	Meetings          []MeetingResponse             `json:"meetings"`
	Notes             []NoteResponse                `json:"notes"`
	History           []StatusChangeResponse        `json:"history"`
	Version           uint64                        `json:"version"`
	CompletedAt       *time.Time                    `json:"completedAt,omitempty"`
	CreatedAt         time.Time                     `json:"createdAt"`
	UpdatedAt         time.Time                     `json:"updatedAt"`
}

// TransactionSummaryResponse is the compact row used in listings
type TransactionSummaryResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	BuyerID    string    `json:"buyerId"`
	AgentID    string    `json:"agentId"`
	NotaryID   string    `json:"notaryId,omitempty"`
	Status     string    `json:"status"`
	FinalPrice string    `json:"finalPrice,omitempty"`
	Percentage float64   `json:"percentage"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TransactionListResponse wraps a listing
type TransactionListResponse struct {
	Count        int                          `json:"count"`
	Transactions []TransactionSummaryResponse `json:"transactions"`
}

// ProgressResponse is GET /transactions/:id/progress
type ProgressResponse struct {
	TransactionID    string           `json:"transactionId"`
	Status           string           `json:"status"`
	ValidatedCount   int              `json:"validatedCount"`
	UploadedCount    int              `json:"uploadedCount"`
	TotalRequired    int              `json:"totalRequired"`
	Percentage       float64          `json:"percentage"`
	MissingDocuments []string         `json:"missingDocuments"`
	UpcomingMeetings int              `json:"upcomingMeetings"`
	NextMeeting      *MeetingResponse `json:"nextMeeting,omitempty"`
}

// SummaryResponse is GET /transactions/summary
type SummaryResponse struct {
	Total          int            `json:"total"`
	Active         int            `json:"active"`
	ByStatus       map[string]int `json:"byStatus"`
	CompletedValue string         `json:"completedValue"`
}
