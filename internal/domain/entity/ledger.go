package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

// Progress summarizes validation of the required documents
type Progress struct {
	ValidatedCount int
	UploadedCount  int
	TotalRequired  int
	Percentage     float64
}

// IsComplete reports whether every required document is validated
func (p Progress) IsComplete() bool {
	return p.ValidatedCount == p.TotalRequired
}

// AttachDocument stores the reference for docType, replacing any prior one and
// clearing its validation record, then lets the state machine react
func (t *Transaction) AttachDocument(docType DocumentType, ref, uploadedBy string, now time.Time) error {
	if t.Status.IsTerminal() {
		return errs.NewClosedTransactionError(t.ID, string(t.Status), "upload_document")
	}
	if !docType.IsValid() {
		return &errs.DocumentError{TransactionID: t.ID, DocumentType: string(docType), Err: errs.ErrInvalidDocumentType}
	}
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("%w: document reference is required", errs.ErrInvalidRequest)
	}

	ts := Timestamp(now)
	t.Documents[docType] = DocumentRef{Ref: ref, UploadedBy: uploadedBy, UploadedAt: ts}
	delete(t.Validations, docType)
	t.touch(ts)

	t.evaluateDocuments(uploadedBy, ts)
	return nil
}

// ValidateDocument records a notary's decision on an uploaded document.
// The first validating notary becomes the bound notary.
func (t *Transaction) ValidateDocument(docType DocumentType, validatedBy string, approve bool, notes string, now time.Time) error {
	if t.Status.IsTerminal() {
		return errs.NewClosedTransactionError(t.ID, string(t.Status), "validate_document")
	}
	if !docType.IsValid() {
		return &errs.DocumentError{TransactionID: t.ID, DocumentType: string(docType), Err: errs.ErrInvalidDocumentType}
	}
	if _, ok := t.Documents[docType]; !ok {
		return errs.NewNotUploadedError(t.ID, string(docType))
	}

	ts := Timestamp(now)
	t.Validations[docType] = ValidationRecord{
		Validated:   approve,
		ValidatedBy: validatedBy,
		ValidatedAt: ts,
		Notes:       notes,
	}
	if !t.HasNotary() {
		t.NotaryID = validatedBy
	}

	outcome := "rejected"
	if approve {
		outcome = "approved"
	}
	body := fmt.Sprintf("Document %s %s.", docType.Label(), outcome)
	if notes != "" {
		body += " " + notes
	}
	t.appendNote(validatedBy, body, NoteValidation, ts)
	t.touch(ts)
	return nil
}

// Progress computes validation progress over the required documents only.
// No required documents means 100%.
func (t *Transaction) Progress() Progress {
	p := Progress{TotalRequired: len(t.RequiredDocuments)}
	for _, d := range t.RequiredDocuments {
		if _, ok := t.Documents[d]; ok {
			p.UploadedCount++
		}
		if rec, ok := t.Validations[d]; ok && rec.Validated {
			p.ValidatedCount++
		}
	}
	if p.TotalRequired == 0 {
		p.Percentage = 100
	} else {
		p.Percentage = float64(p.ValidatedCount) / float64(p.TotalRequired) * 100
	}
	return p
}

// AllRequiredUploaded reports whether every required type has a reference
func (t *Transaction) AllRequiredUploaded() bool {
	return len(t.MissingDocuments()) == 0
}

// MissingDocuments lists required types without a reference
func (t *Transaction) MissingDocuments() []DocumentType {
	var missing []DocumentType
	for _, d := range t.RequiredDocuments {
		if _, ok := t.Documents[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}

// UnvalidatedDocuments lists required types without an approving validation record
func (t *Transaction) UnvalidatedDocuments() []DocumentType {
	var pending []DocumentType
	for _, d := range t.RequiredDocuments {
		if rec, ok := t.Validations[d]; !ok || !rec.Validated {
			pending = append(pending, d)
		}
	}
	return pending
}

// MeetingInput describes a meeting to schedule
type MeetingInput struct {
	Type         MeetingType
	ScheduledAt  time.Time
	Location     string
	Agenda       string
	Participants []string
}

// ScheduleMeeting appends a meeting and a matching meeting note
func (t *Transaction) ScheduleMeeting(input MeetingInput, createdBy string, now time.Time) (Meeting, error) {
	if t.Status.IsTerminal() {
		return Meeting{}, errs.NewClosedTransactionError(t.ID, string(t.Status), "schedule_meeting")
	}
	if !input.Type.IsValid() {
		return Meeting{}, fmt.Errorf("%w: %q", errs.ErrInvalidMeetingType, input.Type)
	}
	ts := Timestamp(now)
	scheduledAt := Timestamp(input.ScheduledAt)
	if input.ScheduledAt.IsZero() || !scheduledAt.After(ts) {
		return Meeting{}, fmt.Errorf("%w: meeting must be scheduled in the future", errs.ErrInvalidRequest)
	}

	meeting := Meeting{
		ID:           fmt.Sprintf("%s-meeting-%d", t.ID, len(t.Meetings)+1),
		Type:         input.Type,
		ScheduledAt:  scheduledAt,
		Location:     input.Location,
		Agenda:       input.Agenda,
		Participants: append([]string{}, input.Participants...),
		Status:       MeetingScheduled,
		CreatedBy:    createdBy,
		CreatedAt:    ts,
	}
	t.Meetings = append(t.Meetings, meeting)

	body := fmt.Sprintf("Meeting scheduled: %s on %s", input.Type.Label(), scheduledAt.Format("2006-01-02 15:04 MST"))
	if input.Location != "" {
		body += " at " + input.Location
	}
	t.appendNote(createdBy, body, NoteMeeting, ts)
	t.touch(ts)
	return meeting, nil
}

// UpdateMeetingStatus starts, completes or cancels a meeting. Meetings are never removed.
func (t *Transaction) UpdateMeetingStatus(meetingID string, status MeetingStatus, actorID string, now time.Time) (Meeting, error) {
	if t.Status.IsTerminal() {
		return Meeting{}, errs.NewClosedTransactionError(t.ID, string(t.Status), "update_meeting")
	}
	meeting, err := t.findMeeting(meetingID)
	if err != nil {
		return Meeting{}, err
	}
	if !meeting.Status.CanMoveTo(status) {
		return Meeting{}, fmt.Errorf("%w: meeting %s cannot move from %s to %s",
			errs.ErrInvalidMeetingStatus, meetingID, meeting.Status, status)
	}

	ts := Timestamp(now)
	meeting.Status = status
	t.appendNote(actorID, fmt.Sprintf("Meeting %s marked %s", meeting.Type.Label(), status), NoteMeeting, ts)
	t.touch(ts)
	return *meeting, nil
}

// RescheduleMeeting moves a meeting that has not started to a new future time,
// keeping its record. An empty location keeps the current one.
func (t *Transaction) RescheduleMeeting(meetingID string, scheduledAt time.Time, location, actorID string, now time.Time) (Meeting, error) {
	if t.Status.IsTerminal() {
		return Meeting{}, errs.NewClosedTransactionError(t.ID, string(t.Status), "reschedule_meeting")
	}
	meeting, err := t.findMeeting(meetingID)
	if err != nil {
		return Meeting{}, err
	}
	if !meeting.Status.IsPending() {
		return Meeting{}, fmt.Errorf("%w: meeting %s is already %s", errs.ErrInvalidMeetingStatus, meetingID, meeting.Status)
	}
	ts := Timestamp(now)
	newTime := Timestamp(scheduledAt)
	if scheduledAt.IsZero() || !newTime.After(ts) {
		return Meeting{}, fmt.Errorf("%w: meeting must be scheduled in the future", errs.ErrInvalidRequest)
	}

	previous := meeting.ScheduledAt
	meeting.ScheduledAt = newTime
	meeting.Status = MeetingRescheduled
	if location = strings.TrimSpace(location); location != "" {
		meeting.Location = location
	}

	t.appendNote(actorID, fmt.Sprintf("Meeting %s rescheduled from %s to %s",
		meeting.Type.Label(), previous.Format("2006-01-02 15:04 MST"), newTime.Format("2006-01-02 15:04 MST")), NoteMeeting, ts)
	t.touch(ts)
	return *meeting, nil
}

func (t *Transaction) findMeeting(meetingID string) (*Meeting, error) {
	for i := range t.Meetings {
		if t.Meetings[i].ID == meetingID {
			return &t.Meetings[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrMeetingNotFound, meetingID)
}

// UpcomingMeetings returns scheduled meetings after now, soonest first
func (t *Transaction) UpcomingMeetings(now time.Time) []Meeting {
	upcoming := make([]Meeting, 0)
	for _, m := range t.Meetings {
		if m.Status.IsPending() && m.ScheduledAt.After(now) {
			upcoming = append(upcoming, m)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})
	return upcoming
}

// NextMeeting returns the soonest upcoming meeting, or nil
func (t *Transaction) NextMeeting(now time.Time) *Meeting {
	upcoming := t.UpcomingMeetings(now)
	if len(upcoming) == 0 {
		return nil
	}
	return &upcoming[0]
}

// AddNote appends a caller-authored note. Notes remain writable on closed transactions.
func (t *Transaction) AddNote(authorID, body string, category NoteCategory, now time.Time) (Note, error) {
	if strings.TrimSpace(body) == "" {
		return Note{}, fmt.Errorf("%w: note body is required", errs.ErrInvalidRequest)
	}
	if !category.IsValid() || category.IsEngineOwned() {
		return Note{}, fmt.Errorf("%w: %q", errs.ErrInvalidNoteCategory, category)
	}
	ts := Timestamp(now)
	note := t.appendNote(authorID, body, category, ts)
	t.touch(ts)
	return note, nil
}
