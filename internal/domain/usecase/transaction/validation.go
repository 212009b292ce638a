package transaction

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/usecase"
)

const (
	maxIDLength   = 128
	maxTextLength = 4000
)

// RequestValidator turns raw request values into typed values. It runs before
// any lock is taken so malformed input fails fast.
type RequestValidator struct{}

// NewRequestValidator creates a new RequestValidator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// ValidateActor checks the identity supplied by the caller
func (v *RequestValidator) ValidateActor(actor entity.Actor) error {
	if strings.TrimSpace(actor.ID) == "" {
		return fmt.Errorf("%w: actor id is required", errs.ErrInvalidRequest)
	}
	if !actor.Role.IsValid() {
		return fmt.Errorf("%w: %q", errs.ErrInvalidRole, actor.Role)
	}
	return nil
}

// ValidateID checks an identifier field
func (v *RequestValidator) ValidateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s is required", errs.ErrInvalidRequest, field)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%w: %s exceeds %d characters", errs.ErrInvalidRequest, field, maxIDLength)
	}
	return nil
}

func (v *RequestValidator) validateText(field, text string) error {
	if len(text) > maxTextLength {
		return fmt.Errorf("%w: %s exceeds %d characters", errs.ErrInvalidRequest, field, maxTextLength)
	}
	return nil
}

// ValidateReserve checks a reservation and parses the optional offer price
func (v *RequestValidator) ValidateReserve(req usecase.ReserveRequest) (decimal.NullDecimal, error) {
	if err := v.ValidateID("property id", req.PropertyID); err != nil {
		return decimal.NullDecimal{}, err
	}
	if err := v.ValidateID("agent id", req.AgentID); err != nil {
		return decimal.NullDecimal{}, err
	}
	if err := v.validateText("note", req.Note); err != nil {
		return decimal.NullDecimal{}, err
	}
	if strings.TrimSpace(req.OfferPrice) == "" {
		return decimal.NullDecimal{}, nil
	}
	price, err := entity.ParsePrice(req.OfferPrice)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: price, Valid: true}, nil
}

// ValidateUpload checks an upload request and parses its document type
func (v *RequestValidator) ValidateUpload(req usecase.UploadDocumentRequest) (entity.DocumentType, error) {
	if err := v.ValidateID("transaction id", req.TransactionID); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.DocumentRef) == "" {
		return "", fmt.Errorf("%w: document reference is required", errs.ErrInvalidRequest)
	}
	return entity.ParseDocumentType(req.DocumentType)
}

// ValidateValidation checks a validation request and parses its document type
func (v *RequestValidator) ValidateValidation(req usecase.ValidateDocumentRequest) (entity.DocumentType, error) {
	if err := v.ValidateID("transaction id", req.TransactionID); err != nil {
		return "", err
	}
	if err := v.validateText("notes", req.Notes); err != nil {
		return "", err
	}
	return entity.ParseDocumentType(req.DocumentType)
}

// ValidateSetStatus checks a status request and parses the target status
func (v *RequestValidator) ValidateSetStatus(req usecase.SetStatusRequest) (entity.Status, error) {
	if err := v.ValidateID("transaction id", req.TransactionID); err != nil {
		return "", err
	}
	if err := v.validateText("reason", req.Reason); err != nil {
		return "", err
	}
	return entity.ParseStatus(req.Status)
}

// ValidateSchedule checks a meeting request and builds the ledger input
func (v *RequestValidator) ValidateSchedule(req usecase.ScheduleMeetingRequest) (entity.MeetingInput, error) {
	if err := v.ValidateID("transaction id", req.TransactionID); err != nil {
		return entity.MeetingInput{}, err
	}
	meetingType, err := entity.ParseMeetingType(req.Type)
	if err != nil {
		return entity.MeetingInput{}, err
	}
	if req.ScheduledAt.IsZero() {
		return entity.MeetingInput{}, fmt.Errorf("%w: scheduled time is required", errs.ErrInvalidRequest)
	}
	if err := v.validateText("agenda", req.Agenda); err != nil {
		return entity.MeetingInput{}, err
	}
	return entity.MeetingInput{
		Type:         meetingType,
		ScheduledAt:  req.ScheduledAt,
		Location:     strings.TrimSpace(req.Location),
		Agenda:       req.Agenda,
		Participants: req.Participants,
	}, nil
}

// ValidateMeetingUpdate checks a meeting status change
func (v *RequestValidator) ValidateMeetingUpdate(req usecase.UpdateMeetingRequest) (entity.MeetingStatus, error) {
	if err := v.ValidateID("transaction id", req.TransactionID); err != nil {
		return "", err
	}
	if err := v.ValidateID("meeting id", req.MeetingID); err != nil {
		return "", err
	}
	return entity.ParseMeetingStatus(req.Status)
}

// ValidateReschedule checks a meeting reschedule request
func (v *RequestValidator) ValidateReschedule(req usecase.RescheduleMeetingRequest) error {
	if err := v.ValidateID("transaction id", req.TransactionID); err != nil {
		return err
	}
	if err := v.ValidateID("meeting id", req.MeetingID); err != nil {
		return err
	}
	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled time is required", errs.ErrInvalidRequest)
	}
	return nil
}

// ValidateNote checks a note request and parses its category
func (v *RequestValidator) ValidateNote(req usecase.AddNoteRequest) (entity.NoteCategory, error) {
	if err := v.ValidateID("transaction id", req.TransactionID); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Body) == "" {
		return "", fmt.Errorf("%w: note body is required", errs.ErrInvalidRequest)
	}
	if err := v.validateText("note", req.Body); err != nil {
		return "", err
	}
	category, err := entity.ParseNoteCategory(req.Category)
	if err != nil {
		return "", err
	}
	if category.IsEngineOwned() {
		return "", fmt.Errorf("%w: %s notes are written by the engine", errs.ErrInvalidNoteCategory, category)
	}
	return category, nil
}
