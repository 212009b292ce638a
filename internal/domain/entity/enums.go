package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

// Status represents the lifecycle state of a purchase transaction
type Status string

// Status constants
const (
	StatusPending          Status = "pending"
	StatusDocumentsPending Status = "documents_pending"
	StatusUnderReview      Status = "under_review"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusDocumentsPending,
	StatusUnderReview,
	StatusCompleted,
	StatusCancelled,
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status mutation is permitted
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus converts external input into a Status
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidStatus, value)
	}
	return s, nil
}

// DocumentType identifies a category of purchase document
type DocumentType string

// Document types
const (
	DocumentContract         DocumentType = "contract"
	DocumentProofOfFunds     DocumentType = "proof_of_funds"
	DocumentIdentity         DocumentType = "identity"
	DocumentLoanApproval     DocumentType = "loan_approval"
	DocumentInspectionReport DocumentType = "inspection_report"
	DocumentInsurancePolicy  DocumentType = "insurance_policy"
	DocumentTransferDeed     DocumentType = "transfer_deed"
)

// AllDocumentTypes lists every recognized document type in canonical order
var AllDocumentTypes = []DocumentType{
	DocumentContract,
	DocumentProofOfFunds,
	DocumentIdentity,
	DocumentLoanApproval,
	DocumentInspectionReport,
	DocumentInsurancePolicy,
	DocumentTransferDeed,
}

var documentLabels = map[DocumentType]string{
	DocumentContract:         "Purchase contract",
	DocumentProofOfFunds:     "Proof of funds",
	DocumentIdentity:         "Identity document",
	DocumentLoanApproval:     "Loan approval",
	DocumentInspectionReport: "Inspection report",
	DocumentInsurancePolicy:  "Insurance policy",
	DocumentTransferDeed:     "Transfer deed",
}

// IsValid reports whether d is a recognized document type
func (d DocumentType) IsValid() bool {
	_, ok := documentLabels[d]
	return ok
}

// Label returns the human readable name of the document type
func (d DocumentType) Label() string {
	if label, ok := documentLabels[d]; ok {
		return label
	}
	return string(d)
}

// ParseDocumentType converts external input into a DocumentType
func ParseDocumentType(value string) (DocumentType, error) {
	d := DocumentType(strings.ToLower(strings.TrimSpace(value)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidDocumentType, value)
	}
	return d, nil
}

// ParseDocumentTypes parses a list of document types, dropping duplicates and
// returning them in canonical order
func ParseDocumentTypes(values []string) ([]DocumentType, error) {
	seen := make(map[DocumentType]bool, len(values))
	for _, v := range values {
		d, err := ParseDocumentType(v)
		if err != nil {
			return nil, err
		}
		seen[d] = true
	}
	return canonicalDocumentTypes(seen), nil
}

func canonicalDocumentTypes(set map[DocumentType]bool) []DocumentType {
	out := make([]DocumentType, 0, len(set))
	for _, d := range AllDocumentTypes {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}

// Role is the kind of actor supplied by the identity provider
type Role string

// Roles
const (
	RoleBuyer  Role = "buyer"
	RoleAgent  Role = "agent"
	RoleNotary Role = "notary"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleAgent, RoleNotary, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts external input into a Role
func ParseRole(value string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidRole, value)
	}
	return r, nil
}

// MeetingType categorizes a scheduled meeting
type MeetingType string

// Meeting types
const (
	MeetingPropertyViewing    MeetingType = "property_viewing"
	MeetingContractDiscussion MeetingType = "contract_discussion"
	MeetingFinalSigning       MeetingType = "final_signing"
	MeetingInspection         MeetingType = "inspection_meeting"
	MeetingClosing            MeetingType = "closing_meeting"
	MeetingGeneralDiscussion  MeetingType = "general_discussion"
)

var meetingLabels = map[MeetingType]string{
	MeetingPropertyViewing:    "Property viewing",
	MeetingContractDiscussion: "Contract discussion",
	MeetingFinalSigning:       "Final signing",
	MeetingInspection:         "Inspection meeting",
	MeetingClosing:            "Closing meeting",
	MeetingGeneralDiscussion:  "General discussion",
}

// IsValid reports whether m is a known meeting type
func (m MeetingType) IsValid() bool {
	_, ok := meetingLabels[m]
	return ok
}

// Label returns the human readable name of the meeting type
func (m MeetingType) Label() string {
	if label, ok := meetingLabels[m]; ok {
		return label
	}
	return string(m)
}

// ParseMeetingType converts external input into a MeetingType
func ParseMeetingType(value string) (MeetingType, error) {
	m := MeetingType(strings.ToLower(strings.TrimSpace(value)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidMeetingType, value)
	}
	return m, nil
}

// MeetingStatus is the state of a single meeting
type MeetingStatus string

// Meeting statuses
const (
	MeetingScheduled   MeetingStatus = "scheduled"
	MeetingInProgress  MeetingStatus = "in_progress"
	MeetingCompleted   MeetingStatus = "completed"
	MeetingCancelled   MeetingStatus = "cancelled"
	MeetingRescheduled MeetingStatus = "rescheduled"
)

// meetingTransitions lists the statuses an explicit update may move a meeting to.
// Rescheduling has its own operation.
var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingScheduled:   {MeetingInProgress, MeetingCompleted, MeetingCancelled},
	MeetingRescheduled: {MeetingInProgress, MeetingCompleted, MeetingCancelled},
	MeetingInProgress:  {MeetingCompleted, MeetingCancelled},
}

// IsPending reports whether the meeting has not started yet
func (s MeetingStatus) IsPending() bool {
	return s == MeetingScheduled || s == MeetingRescheduled
}

// IsFinal reports whether the meeting can no longer change
func (s MeetingStatus) IsFinal() bool {
	return s == MeetingCompleted || s == MeetingCancelled
}

// CanMoveTo reports whether an explicit update from s to next is allowed
func (s MeetingStatus) CanMoveTo(next MeetingStatus) bool {
	for _, allowed := range meetingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseMeetingStatus converts external input into a MeetingStatus
func ParseMeetingStatus(value string) (MeetingStatus, error) {
	s := MeetingStatus(strings.ToLower(strings.TrimSpace(value)))
	switch s {
	case MeetingScheduled, MeetingInProgress, MeetingCompleted, MeetingCancelled, MeetingRescheduled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidMeetingStatus, value)
}

// NoteCategory classifies a communication entry
type NoteCategory string

// Note categories
const (
	NoteGeneral      NoteCategory = "general"
	NoteDocument     NoteCategory = "document"
	NoteMeeting      NoteCategory = "meeting"
	NoteUrgent       NoteCategory = "urgent"
	NoteSystem       NoteCategory = "system"
	NoteValidation   NoteCategory = "validation"
	NoteInitialOffer NoteCategory = "initial_offer"
)

// IsValid reports whether c is a known note category
func (c NoteCategory) IsValid() bool {
	switch c {
	case NoteGeneral, NoteDocument, NoteMeeting, NoteUrgent, NoteSystem, NoteValidation, NoteInitialOffer:
		return true
	}
	return false
}

// IsEngineOwned reports whether only the engine itself may write notes of this category
func (c NoteCategory) IsEngineOwned() bool {
	return c == NoteSystem || c == NoteValidation
}

// ParseNoteCategory converts external input into a NoteCategory; empty input means general
func ParseNoteCategory(value string) (NoteCategory, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return NoteGeneral, nil
	}
	c := NoteCategory(trimmed)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidNoteCategory, value)
	}
	return c, nil
}
