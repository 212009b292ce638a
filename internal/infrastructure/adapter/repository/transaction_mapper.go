package repository

import (
	"fmt"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/model"
)

// entityToModel converts a transaction entity to a database model.
// Collections are never nil so empty columns hold [] or {} rather than null.
func entityToModel(tx *entity.Transaction) model.Transaction {
	required := make([]string, len(tx.RequiredDocuments))
	for i, d := range tx.RequiredDocuments {
		required[i] = string(d)
	}

	documents := make(map[string]model.DocumentRecord, len(tx.Documents))
	for d, ref := range tx.Documents {
		documents[string(d)] = model.DocumentRecord{Ref: ref.Ref, UploadedBy: ref.UploadedBy, UploadedAt: ref.UploadedAt}
	}

	validations := make(map[string]model.ValidationRecord, len(tx.Validations))
	for d, rec := range tx.Validations {
		validations[string(d)] = model.ValidationRecord{
			Validated:   rec.Validated,
			ValidatedBy: rec.ValidatedBy,
			ValidatedAt: rec.ValidatedAt,
			Notes:       rec.Notes,
		}
	}

	meetings := make([]model.MeetingRecord, len(tx.Meetings))
	for i, m := range tx.Meetings {
		participants := m.Participants
		if participants == nil {
			participants = []string{}
		}
		meetings[i] = model.MeetingRecord{
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

	notes := make([]model.NoteRecord, len(tx.Notes))
	for i, n := range tx.Notes {
		notes[i] = model.NoteRecord{ID: n.ID, AuthorID: n.AuthorID, Body: n.Body, Category: string(n.Category), CreatedAt: n.CreatedAt}
	}

	history := make([]model.StatusChangeRecord, len(tx.History))
	for i, h := range tx.History {
		history[i] = model.StatusChangeRecord{From: string(h.From), To: string(h.To), ActorID: h.ActorID, Reason: h.Reason, At: h.At}
	}

	return model.Transaction{
		ID:                tx.ID,
		PropertyID:        tx.PropertyID,
		BuyerID:           tx.BuyerID,
		AgentID:           tx.AgentID,
		NotaryID:          tx.NotaryID,
		Status:            string(tx.Status),
		FinalPrice:        tx.FinalPrice,
		RequiredDocuments: required,
		Documents:         documents,
		Validations:       validations,
		Meetings:          meetings,
		Notes:             notes,
		History:           history,
		CompletedAt:       tx.CompletedAt,
		Version:           tx.Version,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

// modelToEntity converts a database model back to a complete entity.
// Timestamps and prices are normalized so a loaded record compares equal to the saved one;
// a row holding an unknown status or document type is rejected.
func modelToEntity(m *model.Transaction) (*entity.Transaction, error) {
	status := entity.Status(m.Status)
	if !status.IsValid() {
		return nil, corruptRow(m.ID, "status", m.Status)
	}

	tx := &entity.Transaction{
		ID:                m.ID,
		PropertyID:        m.PropertyID,
		BuyerID:           m.BuyerID,
		AgentID:           m.AgentID,
		NotaryID:          m.NotaryID,
		Status:            status,
		FinalPrice:        m.FinalPrice,
		RequiredDocuments: make([]entity.DocumentType, len(m.RequiredDocuments)),
		Documents:         make(map[entity.DocumentType]entity.DocumentRef, len(m.Documents)),
		Validations:       make(map[entity.DocumentType]entity.ValidationRecord, len(m.Validations)),
		Meetings:          make([]entity.Meeting, len(m.Meetings)),
		Notes:             make([]entity.Note, len(m.Notes)),
		History:           make([]entity.StatusChange, len(m.History)),
		Version:           m.Version,
		CreatedAt:         entity.Timestamp(m.CreatedAt),
		UpdatedAt:         entity.Timestamp(m.UpdatedAt),
	}
	if tx.FinalPrice.Valid {
		tx.FinalPrice.Decimal = entity.NormalizePrice(tx.FinalPrice.Decimal)
	}
	if m.CompletedAt != nil {
		completed := entity.Timestamp(*m.CompletedAt)
		tx.CompletedAt = &completed
	}

	for i, d := range m.RequiredDocuments {
		docType := entity.DocumentType(d)
		if !docType.IsValid() {
			return nil, corruptRow(m.ID, "required_documents", d)
		}
		tx.RequiredDocuments[i] = docType
	}
	for d, rec := range m.Documents {
		docType := entity.DocumentType(d)
		if !docType.IsValid() {
			return nil, corruptRow(m.ID, "documents", d)
		}
		tx.Documents[docType] = entity.DocumentRef{
			Ref:        rec.Ref,
			UploadedBy: rec.UploadedBy,
			UploadedAt: entity.Timestamp(rec.UploadedAt),
		}
	}
	for d, rec := range m.Validations {
		docType := entity.DocumentType(d)
		if !docType.IsValid() {
			return nil, corruptRow(m.ID, "validations", d)
		}
		tx.Validations[docType] = entity.ValidationRecord{
			Validated:   rec.Validated,
			ValidatedBy: rec.ValidatedBy,
			ValidatedAt: entity.Timestamp(rec.ValidatedAt),
			Notes:       rec.Notes,
		}
	}
	for i, rec := range m.Meetings {
		tx.Meetings[i] = entity.Meeting{
			ID:           rec.ID,
			Type:         entity.MeetingType(rec.Type),
			ScheduledAt:  entity.Timestamp(rec.ScheduledAt),
			Location:     rec.Location,
			Agenda:       rec.Agenda,
			Participants: append([]string{}, rec.Participants...),
			Status:       entity.MeetingStatus(rec.Status),
			CreatedBy:    rec.CreatedBy,
			CreatedAt:    entity.Timestamp(rec.CreatedAt),
		}
	}
	for i, rec := range m.Notes {
		tx.Notes[i] = entity.Note{
			ID:        rec.ID,
			AuthorID:  rec.AuthorID,
			Body:      rec.Body,
			Category:  entity.NoteCategory(rec.Category),
			CreatedAt: entity.Timestamp(rec.CreatedAt),
		}
	}
	for i, rec := range m.History {
		tx.History[i] = entity.StatusChange{
			From:    entity.Status(rec.From),
			To:      entity.Status(rec.To),
			ActorID: rec.ActorID,
			Reason:  rec.Reason,
			At:      entity.Timestamp(rec.At),
		}
	}

	return tx, nil
}

func corruptRow(id, column, value string) error {
	return fmt.Errorf("%w: transaction %s has unknown %s value %q", errs.ErrInternalServer, id, column, value)
}
