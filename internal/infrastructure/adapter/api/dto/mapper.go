package dto

import (
	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/usecase"
)

// NewTransactionResponse renders the full aggregate
func NewTransactionResponse(tx *entity.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                tx.ID,
		PropertyID:        tx.PropertyID,
		BuyerID:           tx.BuyerID,
		AgentID:           tx.AgentID,
		NotaryID:          tx.NotaryID,
		Status:            string(tx.Status),
		FinalPrice:        entity.FormatNullPrice(tx.FinalPrice),
		RequiredDocuments: documentNames(tx.RequiredDocuments),
		Documents:         make(map[string]DocumentResponse, len(tx.Documents)),
		Validations:       make(map[string]ValidationResponse, len(tx.Validations)),
		Meetings:          make([]MeetingResponse, 0, len(tx.Meetings)),
		Notes:             make([]NoteResponse, 0, len(tx.Notes)),
		History:           make([]StatusChangeResponse, 0, len(tx.History)),
		Version:           tx.Version,
		CompletedAt:       tx.CompletedAt,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}

	for d, ref := range tx.Documents {
		resp.Documents[string(d)] = DocumentResponse{
			Ref:        ref.Ref,
			UploadedBy: ref.UploadedBy,
			UploadedAt: ref.UploadedAt,
			Required:   tx.IsRequired(d),
		}
	}
	for d, rec := range tx.Validations {
		resp.Validations[string(d)] = ValidationResponse{
			Validated:   rec.Validated,
			ValidatedBy: rec.ValidatedBy,
			ValidatedAt: rec.ValidatedAt,
			Notes:       rec.Notes,
		}
	}
	for _, m := range tx.Meetings {
		resp.Meetings = append(resp.Meetings, NewMeetingResponse(m))
	}
	for _, n := range tx.Notes {
		resp.Notes = append(resp.Notes, NoteResponse{
			ID:        n.ID,
			AuthorID:  n.AuthorID,
			Body:      n.Body,
			Category:  string(n.Category),
			CreatedAt: n.CreatedAt,
		})
	}
	for _, h := range tx.History {
		resp.History = append(resp.History, StatusChangeResponse{
			From:    string(h.From),
			To:      string(h.To),
			ActorID: h.ActorID,
			Reason:  h.Reason,
			At:      h.At,
		})
	}
	return resp
}

// NewMeetingResponse renders one meeting
func NewMeetingResponse(m entity.Meeting) MeetingResponse {
	participants := m.Participants
	if participants == nil {
		participants = []string{}
	}
	return MeetingResponse{
		ID:           m.ID,
		Type:         string(m.Type),
		ScheduledAt:  m.ScheduledAt,
		Location:     m.Location,
		Agenda:       m.Agenda,
		Participants: participants,
		Status:       string(m.Status),
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// NewTransactionListResponse renders listing rows in repository order
func NewTransactionListResponse(transactions []*entity.Transaction) TransactionListResponse {
	rows := make([]TransactionSummaryResponse, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, TransactionSummaryResponse{
			ID:         tx.ID,
			PropertyID: tx.PropertyID,
			BuyerID:    tx.BuyerID,
			AgentID:    tx.AgentID,
			NotaryID:   tx.NotaryID,
			Status:     string(tx.Status),
			FinalPrice: entity.FormatNullPrice(tx.FinalPrice),
			Percentage: tx.Progress().Percentage,
			UpdatedAt:  tx.UpdatedAt,
		})
	}
	return TransactionListResponse{Count: len(rows), Transactions: rows}
}

// NewProgressResponse renders a progress view
func NewProgressResponse(view *usecase.ProgressView) ProgressResponse {
	resp := ProgressResponse{
		TransactionID:    view.TransactionID,
		Status:           string(view.Status),
		ValidatedCount:   view.Progress.ValidatedCount,
		UploadedCount:    view.Progress.UploadedCount,
		TotalRequired:    view.Progress.TotalRequired,
		Percentage:       view.Progress.Percentage,
		MissingDocuments: documentNames(view.MissingDocuments),
		UpcomingMeetings: view.UpcomingMeetings,
	}
	if view.NextMeeting != nil {
		next := NewMeetingResponse(*view.NextMeeting)
		resp.NextMeeting = &next
	}
	return resp
}

// NewSummaryResponse renders an actor summary
func NewSummaryResponse(summary *usecase.Summary) SummaryResponse {
	byStatus := make(map[string]int, len(summary.ByStatus))
	for s, n := range summary.ByStatus {
		byStatus[string(s)] = n
	}
	return SummaryResponse{
		Total:          summary.Total,
		Active:         summary.Active,
		ByStatus:       byStatus,
		CompletedValue: entity.FormatPrice(summary.CompletedValue),
	}
}

func documentNames(types []entity.DocumentType) []string {
	names := make([]string, len(types))
	for i, d := range types {
		names[i] = string(d)
	}
	return names
}
