package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/model"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.FixedZone("CEST", 2*60*60))

func completedTransaction(t *testing.T) *entity.Transaction {
	t.Helper()

	tx, err := entity.NewTransaction(entity.NewTransactionParams{
		ID:                "tx-1",
		PropertyID:        "P1",
		BuyerID:           "B1",
		AgentID:           "A1",
		FinalPrice:        decimal.NullDecimal{Decimal: decimal.RequireFromString("350000.5"), Valid: true},
		RequiredDocuments: []entity.DocumentType{entity.DocumentProofOfFunds, entity.DocumentContract},
	}, baseTime)
	require.NoError(t, err)

	require.NoError(t, tx.AttachDocument(entity.DocumentContract, "s3://docs/contract.pdf", "B1", baseTime.Add(time.Minute)))
	require.NoError(t, tx.AttachDocument(entity.DocumentProofOfFunds, "s3://docs/funds.pdf", "B1", baseTime.Add(2*time.Minute)))
	require.NoError(t, tx.AttachDocument(entity.DocumentIdentity, "s3://docs/id.pdf", "B1", baseTime.Add(3*time.Minute)))
	require.NoError(t, tx.ValidateDocument(entity.DocumentContract, "N1", true, "signed", baseTime.Add(4*time.Minute)))
	require.NoError(t, tx.ValidateDocument(entity.DocumentProofOfFunds, "N1", true, "", baseTime.Add(5*time.Minute)))
	_, err = tx.ScheduleMeeting(entity.MeetingInput{
		Type:         entity.MeetingFinalSigning,
		ScheduledAt:  baseTime.Add(48 * time.Hour),
		Location:     "Office 3",
		Participants: []string{"B1", "A1", "N1"},
	}, "A1", baseTime.Add(6*time.Minute))
	require.NoError(t, err)
	_, err = tx.AddNote("B1", "Keys on Friday?", entity.NoteGeneral, baseTime.Add(7*time.Minute))
	require.NoError(t, err)
	require.NoError(t, tx.Complete("N1", "", baseTime.Add(8*time.Minute)))

	tx.Version = 4
	return tx
}

func TestTransactionMapper_RoundTrip(t *testing.T) {
	t.Run("complete aggregate", func(t *testing.T) {
		tx := completedTransaction(t)

		m := entityToModel(tx)
		assert.Equal(t, "completed", m.Status)
		assert.Equal(t, "N1", m.NotaryID)
		assert.Equal(t, uint64(4), m.Version)
		assert.Equal(t, []string{"contract", "proof_of_funds"}, m.RequiredDocuments)
		assert.Len(t, m.Documents, 3)
		assert.Equal(t, []string{"B1", "A1", "N1"}, m.Meetings[0].Participants)

		loaded, err := modelToEntity(&m)
		require.NoError(t, err)
		assert.Equal(t, tx, loaded)
	})

	t.Run("fresh reservation keeps empty collections", func(t *testing.T) {
		tx, err := entity.NewTransaction(entity.NewTransactionParams{
			ID: "tx-2", PropertyID: "P3", BuyerID: "B1", AgentID: "A1",
		}, baseTime)
		require.NoError(t, err)
		tx.Version = 1

		m := entityToModel(tx)
		assert.False(t, m.FinalPrice.Valid)
		assert.NotNil(t, m.Meetings)
		assert.Empty(t, m.Meetings)
		assert.NotNil(t, m.Documents)
		assert.NotNil(t, m.RequiredDocuments)

		loaded, err := modelToEntity(&m)
		require.NoError(t, err)
		assert.Equal(t, tx, loaded)
		assert.NotNil(t, loaded.Documents)
		assert.NotNil(t, loaded.History)
	})

	t.Run("stored values are normalized on load", func(t *testing.T) {
		tx := completedTransaction(t)
		m := entityToModel(tx)

		// what a numeric(18,2) column and a local time zone driver hand back
		m.FinalPrice = decimal.NullDecimal{Decimal: decimal.RequireFromString("350000.50"), Valid: true}
		m.CreatedAt = m.CreatedAt.In(time.FixedZone("EST", -5*60*60))

		loaded, err := modelToEntity(&m)
		require.NoError(t, err)
		assert.Equal(t, tx.FinalPrice, loaded.FinalPrice)
		assert.Equal(t, tx.CreatedAt, loaded.CreatedAt)
		assert.Equal(t, "350000.50", entity.FormatNullPrice(loaded.FinalPrice))
	})
}

func TestTransactionMapper_CorruptRow(t *testing.T) {
	tests := []struct {
		name   string
		row    model.Transaction
		column string
	}{
		{"unknown status", model.Transaction{ID: "tx-1", Status: "archived"}, "status"},
		{"unknown required type", model.Transaction{ID: "tx-1", Status: "pending", RequiredDocuments: []string{"passport"}}, "required_documents"},
		{"unknown document key", model.Transaction{
			ID:        "tx-1",
			Status:    "documents_pending",
			Documents: map[string]model.DocumentRecord{"passport": {Ref: "r"}},
		}, "documents"},
		{"unknown validation key", model.Transaction{
			ID:          "tx-1",
			Status:      "under_review",
			Validations: map[string]model.ValidationRecord{"passport": {Validated: true}},
		}, "validations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := modelToEntity(&tt.row)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrInternalServer)
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}
