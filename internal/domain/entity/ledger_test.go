package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

func TestAttachDocument(t *testing.T) {
	t.Run("first upload starts document collection", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract, DocumentProofOfFunds)

		require.NoError(t, tx.AttachDocument(DocumentContract, "ref-1", "B1", fixedTime))

		assert.Equal(t, StatusDocumentsPending, tx.Status)
		assert.Equal(t, "ref-1", tx.Documents[DocumentContract].Ref)
		assert.Equal(t, "B1", tx.Documents[DocumentContract].UploadedBy)
	})

	t.Run("uploading every required type moves to review", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract, DocumentProofOfFunds)

		require.NoError(t, tx.AttachDocument(DocumentContract, "ref-1", "B1", fixedTime))
		require.NoError(t, tx.AttachDocument(DocumentProofOfFunds, "ref-2", "B1", fixedTime))

		assert.Equal(t, StatusUnderReview, tx.Status)
		path := []Status{StatusPending}
		for _, change := range tx.History {
			path = append(path, change.To)
		}
		assert.Equal(t, []Status{StatusPending, StatusDocumentsPending, StatusUnderReview}, path)
	})

	t.Run("supplementary document does not satisfy requirements", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract)

		require.NoError(t, tx.AttachDocument(DocumentInspectionReport, "ref-9", "A1", fixedTime))

		assert.Equal(t, StatusDocumentsPending, tx.Status)
		assert.Equal(t, 0, tx.Progress().UploadedCount)
	})

	t.Run("re-upload clears prior validation", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract)
		require.NoError(t, tx.AttachDocument(DocumentContract, "ref-1", "B1", fixedTime))
		require.NoError(t, tx.ValidateDocument(DocumentContract, "N1", true, "", fixedTime))
		require.Equal(t, 1, tx.Progress().ValidatedCount)

		require.NoError(t, tx.AttachDocument(DocumentContract, "ref-1b", "B1", fixedTime.Add(time.Minute)))

		_, validated := tx.Validations[DocumentContract]
		assert.False(t, validated)
		assert.Equal(t, "ref-1b", tx.Documents[DocumentContract].Ref)
		assert.Equal(t, 0, tx.Progress().ValidatedCount)
		assert.Equal(t, Timestamp(fixedTime.Add(time.Minute)), tx.UpdatedAt)
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract)

		err := tx.AttachDocument("passport", "ref-1", "B1", fixedTime)

		assert.ErrorIs(t, err, errs.ErrInvalidDocumentType)
		assert.Equal(t, StatusPending, tx.Status)
	})

	t.Run("rejects empty reference", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract)

		assert.ErrorIs(t, tx.AttachDocument(DocumentContract, " ", "B1", fixedTime), errs.ErrInvalidRequest)
	})

	t.Run("rejects upload on closed transaction", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract)
		require.NoError(t, tx.RequestStatus(StatusCancelled, "B1", "changed mind", fixedTime))

		err := tx.AttachDocument(DocumentContract, "ref-1", "B1", fixedTime)

		assert.ErrorIs(t, err, errs.ErrTransactionClosed)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestValidateDocument(t *testing.T) {
	t.Run("fails when nothing was uploaded", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract, DocumentProofOfFunds)

		err := tx.ValidateDocument(DocumentContract, "N1", true, "", fixedTime)

		assert.ErrorIs(t, err, errs.ErrNotUploaded)
		assert.Empty(t, tx.Validations)
		assert.False(t, tx.HasNotary())
	})

	t.Run("records outcome and binds first notary", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract)
		require.NoError(t, tx.AttachDocument(DocumentContract, "ref-1", "B1", fixedTime))

		require.NoError(t, tx.ValidateDocument(DocumentContract, "N1", false, "signature missing", fixedTime))

		rec := tx.Validations[DocumentContract]
		assert.False(t, rec.Validated)
		assert.Equal(t, "N1", rec.ValidatedBy)
		assert.Equal(t, "signature missing", rec.Notes)
		assert.Equal(t, "N1", tx.NotaryID)

		last := tx.Notes[len(tx.Notes)-1]
		assert.Equal(t, NoteValidation, last.Category)
		assert.Equal(t, "Document Purchase contract rejected. signature missing", last.Body)
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		tx := newTestTransaction(t)
		assert.ErrorIs(t, tx.ValidateDocument("deed", "N1", true, "", fixedTime), errs.ErrInvalidDocumentType)
	})
}

func TestProgress(t *testing.T) {
	t.Run("no required documents is complete", func(t *testing.T) {
		tx := newTestTransaction(t)
		p := tx.Progress()

		assert.Equal(t, Progress{ValidatedCount: 0, TotalRequired: 0, Percentage: 100}, p)
		assert.True(t, p.IsComplete())
	})

	t.Run("counts only required approved documents", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract, DocumentProofOfFunds, DocumentIdentity, DocumentLoanApproval)
		require.NoError(t, tx.AttachDocument(DocumentContract, "r1", "B1", fixedTime))
		require.NoError(t, tx.AttachDocument(DocumentIdentity, "r2", "B1", fixedTime))
		require.NoError(t, tx.AttachDocument(DocumentTransferDeed, "r3", "A1", fixedTime))
		require.NoError(t, tx.ValidateDocument(DocumentContract, "N1", true, "", fixedTime))
		require.NoError(t, tx.ValidateDocument(DocumentIdentity, "N1", false, "", fixedTime))
		require.NoError(t, tx.ValidateDocument(DocumentTransferDeed, "N1", true, "", fixedTime))

		p := tx.Progress()
		assert.Equal(t, 1, p.ValidatedCount)
		assert.Equal(t, 2, p.UploadedCount)
		assert.Equal(t, 4, p.TotalRequired)
		assert.Equal(t, 25.0, p.Percentage)
	})
}

func TestMeetings(t *testing.T) {
	t.Run("schedules and orders upcoming meetings", func(t *testing.T) {
		tx := newTestTransaction(t)
		later, err := tx.ScheduleMeeting(MeetingInput{Type: MeetingFinalSigning, ScheduledAt: fixedTime.Add(72 * time.Hour), Location: "Office"}, "A1", fixedTime)
		require.NoError(t, err)
		sooner, err := tx.ScheduleMeeting(MeetingInput{Type: MeetingPropertyViewing, ScheduledAt: fixedTime.Add(24 * time.Hour)}, "B1", fixedTime)
		require.NoError(t, err)

		assert.Equal(t, "tx-1-meeting-1", later.ID)
		assert.Equal(t, MeetingScheduled, later.Status)
		assert.Equal(t, []Meeting{sooner, later}, tx.UpcomingMeetings(fixedTime))
		assert.Equal(t, sooner.ID, tx.NextMeeting(fixedTime).ID)
		assert.Equal(t, NoteMeeting, tx.Notes[0].Category)
	})

	t.Run("rejects meetings in the past", func(t *testing.T) {
		tx := newTestTransaction(t)
		_, err := tx.ScheduleMeeting(MeetingInput{Type: MeetingClosing, ScheduledAt: fixedTime.Add(-time.Hour)}, "A1", fixedTime)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		assert.Empty(t, tx.Meetings)
	})

	t.Run("cancellation keeps the meeting", func(t *testing.T) {
		tx := newTestTransaction(t)
		m, err := tx.ScheduleMeeting(MeetingInput{Type: MeetingInspection, ScheduledAt: fixedTime.Add(time.Hour)}, "A1", fixedTime)
		require.NoError(t, err)

		updated, err := tx.UpdateMeetingStatus(m.ID, MeetingCancelled, "B1", fixedTime)
		require.NoError(t, err)

		assert.Equal(t, MeetingCancelled, updated.Status)
		assert.Len(t, tx.Meetings, 1)
		assert.Nil(t, tx.NextMeeting(fixedTime))

		_, err = tx.UpdateMeetingStatus(m.ID, MeetingCompleted, "B1", fixedTime)
		assert.ErrorIs(t, err, errs.ErrInvalidMeetingStatus)

		_, err = tx.UpdateMeetingStatus("missing", MeetingCompleted, "B1", fixedTime)
		assert.ErrorIs(t, err, errs.ErrMeetingNotFound)
	})

	t.Run("status updates follow the meeting lifecycle", func(t *testing.T) {
		tests := []struct {
			name    string
			path    []MeetingStatus
			wantErr bool
		}{
			{"start then complete", []MeetingStatus{MeetingInProgress, MeetingCompleted}, false},
			{"start then cancel", []MeetingStatus{MeetingInProgress, MeetingCancelled}, false},
			{"complete directly", []MeetingStatus{MeetingCompleted}, false},
			{"back to scheduled", []MeetingStatus{MeetingScheduled}, true},
			{"reschedule through update", []MeetingStatus{MeetingRescheduled}, true},
			{"restart a started meeting", []MeetingStatus{MeetingInProgress, MeetingInProgress}, true},
			{"reopen a completed meeting", []MeetingStatus{MeetingCompleted, MeetingInProgress}, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tx := newTestTransaction(t)
				m, err := tx.ScheduleMeeting(MeetingInput{Type: MeetingClosing, ScheduledAt: fixedTime.Add(time.Hour)}, "A1", fixedTime)
				require.NoError(t, err)

				for _, status := range tt.path {
					_, err = tx.UpdateMeetingStatus(m.ID, status, "A1", fixedTime)
					if err != nil {
						break
					}
				}
				if tt.wantErr {
					assert.ErrorIs(t, err, errs.ErrInvalidMeetingStatus)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.path[len(tt.path)-1], tx.Meetings[0].Status)
			})
		}
	})

	t.Run("reschedule keeps the record and moves the time", func(t *testing.T) {
		tx := newTestTransaction(t)
		m, err := tx.ScheduleMeeting(MeetingInput{Type: MeetingFinalSigning, ScheduledAt: fixedTime.Add(24 * time.Hour), Location: "Office"}, "A1", fixedTime)
		require.NoError(t, err)
		notesBefore := len(tx.Notes)

		moved, err := tx.RescheduleMeeting(m.ID, fixedTime.Add(48*time.Hour), "", "B1", fixedTime.Add(time.Minute))
		require.NoError(t, err)

		assert.Equal(t, m.ID, moved.ID)
		assert.Equal(t, MeetingRescheduled, moved.Status)
		assert.Equal(t, Timestamp(fixedTime.Add(48*time.Hour)), moved.ScheduledAt)
		assert.Equal(t, "Office", moved.Location)
		assert.Len(t, tx.Meetings, 1)
		require.Len(t, tx.Notes, notesBefore+1)
		assert.Equal(t, NoteMeeting, tx.Notes[notesBefore].Category)
		assert.Contains(t, tx.Notes[notesBefore].Body, "rescheduled")
		assert.Equal(t, moved.ID, tx.NextMeeting(fixedTime).ID)

		again, err := tx.RescheduleMeeting(m.ID, fixedTime.Add(72*time.Hour), "Court", "B1", fixedTime.Add(2*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "Court", again.Location)

		_, err = tx.RescheduleMeeting(m.ID, fixedTime.Add(-time.Hour), "", "B1", fixedTime)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		_, err = tx.UpdateMeetingStatus(m.ID, MeetingInProgress, "A1", fixedTime)
		require.NoError(t, err)
		_, err = tx.RescheduleMeeting(m.ID, fixedTime.Add(96*time.Hour), "", "B1", fixedTime)
		assert.ErrorIs(t, err, errs.ErrInvalidMeetingStatus)

		_, err = tx.RescheduleMeeting("missing", fixedTime.Add(96*time.Hour), "", "B1", fixedTime)
		assert.ErrorIs(t, err, errs.ErrMeetingNotFound)
	})

	t.Run("closed transactions reject rescheduling", func(t *testing.T) {
		tx := newTestTransaction(t)
		m, err := tx.ScheduleMeeting(MeetingInput{Type: MeetingClosing, ScheduledAt: fixedTime.Add(time.Hour)}, "A1", fixedTime)
		require.NoError(t, err)
		require.NoError(t, tx.RequestStatus(StatusCancelled, "B1", "", fixedTime))

		_, err = tx.RescheduleMeeting(m.ID, fixedTime.Add(2*time.Hour), "", "B1", fixedTime)
		assert.ErrorIs(t, err, errs.ErrTransactionClosed)
	})
}

func TestAddNote(t *testing.T) {
	tx := newTestTransaction(t)

	note, err := tx.AddNote("B1", "Can we close before June?", NoteGeneral, fixedTime)
	require.NoError(t, err)
	assert.Equal(t, "tx-1-note-1", note.ID)

	_, err = tx.AddNote("B1", "", NoteGeneral, fixedTime)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = tx.AddNote("B1", "spoofed", NoteSystem, fixedTime)
	assert.ErrorIs(t, err, errs.ErrInvalidNoteCategory)

	require.NoError(t, tx.RequestStatus(StatusCancelled, "B1", "", fixedTime))
	_, err = tx.AddNote("A1", "Closing the file.", NoteGeneral, fixedTime)
	assert.NoError(t, err)
}
