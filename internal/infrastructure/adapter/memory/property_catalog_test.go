package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

func TestPropertyCatalog(t *testing.T) {
	c := NewPropertyCatalog(entity.PropertyListing{
		ID:                "P1",
		AgentID:           "A1",
		Price:             decimal.New(100, 0),
		RequiredDocuments: []entity.DocumentType{entity.DocumentContract},
		Status:            entity.PropertyValidated,
	})

	listing, err := c.GetProperty(context.Background(), "P1")
	require.NoError(t, err)
	assert.True(t, listing.IsReservable())

	listing.RequiredDocuments[0] = entity.DocumentIdentity
	again, err := c.GetProperty(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentContract, again.RequiredDocuments[0])

	_, err = c.GetProperty(context.Background(), "P2")
	assert.ErrorIs(t, err, errs.ErrPropertyNotFound)
}
