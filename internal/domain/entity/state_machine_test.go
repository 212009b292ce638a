package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		from     Status
		to       Status
		expected bool
	}{
		{StatusPending, StatusDocumentsPending, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusUnderReview, false},
		{StatusPending, StatusCompleted, false},
		{StatusDocumentsPending, StatusUnderReview, true},
		{StatusDocumentsPending, StatusCancelled, true},
		{StatusDocumentsPending, StatusPending, false},
		{StatusUnderReview, StatusCompleted, true},
		{StatusUnderReview, StatusCancelled, true},
		{StatusUnderReview, StatusDocumentsPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusUnderReview, StatusUnderReview, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.expected, CanTransition(tc.from, tc.to))
		})
	}
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t, []Status{StatusDocumentsPending, StatusCancelled}, NextStatuses(StatusPending))
	assert.Empty(t, NextStatuses(StatusCompleted))
	assert.Empty(t, NextStatuses(StatusCancelled))
}

func TestValidPath(t *testing.T) {
	assert.True(t, ValidPath([]Status{StatusPending, StatusDocumentsPending, StatusUnderReview, StatusCompleted}))
	assert.True(t, ValidPath([]Status{StatusPending, StatusCancelled}))
	assert.False(t, ValidPath([]Status{StatusPending, StatusUnderReview}))
	assert.False(t, ValidPath([]Status{StatusPending, StatusCancelled, StatusPending}))
}

func TestRequestStatus(t *testing.T) {
	t.Run("explicit document collection start", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract)

		require.NoError(t, tx.RequestStatus(StatusDocumentsPending, "A1", "", fixedTime))

		assert.Equal(t, StatusDocumentsPending, tx.Status)
		require.Len(t, tx.History, 1)
		assert.Equal(t, "A1", tx.History[0].ActorID)
		assert.Equal(t, "Status changed from pending to documents_pending.", tx.Notes[0].Body)
	})

	t.Run("explicit review requires every required document", func(t *testing.T) {
		tx := newTestTransaction(t, DocumentContract, DocumentIdentity)
		require.NoError(t, tx.RequestStatus(StatusDocumentsPending, "A1", "", fixedTime))

		err := tx.RequestStatus(StatusUnderReview, "A1", "", fixedTime)

		var te *errs.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Contains(t, te.Reason, "contract, identity")
		assert.Equal(t, StatusDocumentsPending, tx.Status)
	})

	t.Run("explicit and automatic review converge", func(t *testing.T) {
		auto := newTestTransaction(t)
		require.NoError(t, auto.AttachDocument(DocumentInspectionReport, "r", "A1", fixedTime))

		explicit := newTestTransaction(t)
		require.NoError(t, explicit.RequestStatus(StatusDocumentsPending, "A1", "", fixedTime))
		require.NoError(t, explicit.RequestStatus(StatusUnderReview, "A1", "", fixedTime))

		assert.Equal(t, StatusUnderReview, auto.Status)
		assert.Equal(t, auto.Status, explicit.Status)
	})

	t.Run("rejects skipping an edge and leaves record unchanged", func(t *testing.T) {
		tx := newTestTransaction(t)
		before := tx.Clone()

		err := tx.RequestStatus(StatusUnderReview, "A1", "", fixedTime)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, before, tx)
	})

	t.Run("cancel from any non-terminal state", func(t *testing.T) {
		for _, setup := range []func(tx *Transaction){
			func(tx *Transaction) {},
			func(tx *Transaction) { _ = tx.RequestStatus(StatusDocumentsPending, "A1", "", fixedTime) },
			func(tx *Transaction) { _ = tx.AttachDocument(DocumentContract, "r", "B1", fixedTime) },
		} {
			tx := newTestTransaction(t, DocumentContract)
			setup(tx)
			require.NoError(t, tx.RequestStatus(StatusCancelled, "B1", "financing fell through", fixedTime))
			assert.Equal(t, StatusCancelled, tx.Status)
		}
	})

	t.Run("terminal states reject further changes", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.RequestStatus(StatusCancelled, "B1", "", fixedTime))

		err := tx.RequestStatus(StatusDocumentsPending, "B1", "", fixedTime)

		assert.ErrorIs(t, err, errs.ErrTransactionClosed)
		assert.Equal(t, StatusCancelled, tx.Status)

		err = tx.AttachDocument(DocumentContract, "r", "B1", fixedTime)
		var closed *errs.ClosedTransactionError
		require.ErrorAs(t, err, &closed)
		assert.Equal(t, "upload_document", closed.Action)
		assert.EqualError(t, err, "transaction "+tx.ID+" is cancelled; upload_document rejected")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		tx := newTestTransaction(t)
		assert.ErrorIs(t, tx.RequestStatus("archived", "B1", "", fixedTime), errs.ErrInvalidStatus)
	})
}

func TestComplete(t *testing.T) {
	underReview := func(t *testing.T) *Transaction {
		tx := newTestTransaction(t, DocumentContract, DocumentProofOfFunds)
		require.NoError(t, tx.AttachDocument(DocumentContract, "ref1", "B1", fixedTime))
		require.NoError(t, tx.AttachDocument(DocumentProofOfFunds, "ref2", "B1", fixedTime))
		require.Equal(t, StatusUnderReview, tx.Status)
		return tx
	}

	t.Run("requires every required document validated", func(t *testing.T) {
		tx := underReview(t)
		require.NoError(t, tx.ValidateDocument(DocumentContract, "N1", true, "", fixedTime))

		err := tx.RequestStatus(StatusCompleted, "N1", "", fixedTime)

		var ive *errs.IncompleteValidationError
		require.ErrorAs(t, err, &ive)
		assert.Equal(t, []string{"proof_of_funds"}, ive.Missing)
		assert.Equal(t, StatusUnderReview, tx.Status)
		assert.Nil(t, tx.CompletedAt)
	})

	t.Run("completes and stamps completion time", func(t *testing.T) {
		tx := underReview(t)
		require.NoError(t, tx.ValidateDocument(DocumentContract, "N1", true, "", fixedTime))
		require.NoError(t, tx.ValidateDocument(DocumentProofOfFunds, "N1", true, "", fixedTime))
		require.Equal(t, 100.0, tx.Progress().Percentage)

		require.NoError(t, tx.RequestStatus(StatusCompleted, "N1", "signed", fixedTime))

		assert.Equal(t, StatusCompleted, tx.Status)
		require.NotNil(t, tx.CompletedAt)
		assert.Equal(t, Timestamp(fixedTime), *tx.CompletedAt)
		assert.ErrorIs(t, tx.RequestStatus(StatusCancelled, "B1", "", fixedTime), errs.ErrTransactionClosed)
	})

	t.Run("binds completing notary when none was bound", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.AttachDocument(DocumentInspectionReport, "r", "A1", fixedTime))

		require.NoError(t, tx.Complete("N2", "", fixedTime))

		assert.Equal(t, "N2", tx.NotaryID)
	})

	t.Run("cannot complete before review", func(t *testing.T) {
		tx := newTestTransaction(t)
		assert.ErrorIs(t, tx.Complete("N1", "", fixedTime), errs.ErrInvalidTransition)
	})
}

func TestClaim(t *testing.T) {
	tx := newTestTransaction(t)

	require.NoError(t, tx.Claim("N1", fixedTime))
	assert.Equal(t, "N1", tx.NotaryID)
	assert.NoError(t, tx.Claim("N1", fixedTime))
	assert.ErrorIs(t, tx.Claim("N2", fixedTime), errs.ErrUnauthorized)
	assert.Equal(t, "N1", tx.NotaryID)
}
