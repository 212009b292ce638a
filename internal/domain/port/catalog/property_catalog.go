package catalog

import (
	"context"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
)

// PropertyCatalog is the external listing service consulted once per reservation
type PropertyCatalog interface {
	// GetProperty returns the listing or ErrPropertyNotFound
	GetProperty(ctx context.Context, propertyID string) (*entity.PropertyListing, error)
}
