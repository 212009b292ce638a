package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/catalog"
)

var _ catalog.PropertyCatalog = (*PropertyCatalog)(nil)

// PropertyCatalog serves listings seeded from configuration
type PropertyCatalog struct {
	mu       sync.RWMutex
	listings map[string]entity.PropertyListing
}

// NewPropertyCatalog creates a catalog holding the given listings
func NewPropertyCatalog(listings ...entity.PropertyListing) *PropertyCatalog {
	c := &PropertyCatalog{listings: make(map[string]entity.PropertyListing, len(listings))}
	for _, l := range listings {
		c.Put(l)
	}
	return c
}

// Put adds or replaces a listing
func (c *PropertyCatalog) Put(listing entity.PropertyListing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	listing.RequiredDocuments = append([]entity.DocumentType{}, listing.RequiredDocuments...)
	c.listings[listing.ID] = listing
}

// GetProperty returns a copy of the listing
func (c *PropertyCatalog) GetProperty(_ context.Context, propertyID string) (*entity.PropertyListing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	listing, ok := c.listings[propertyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrPropertyNotFound, propertyID)
	}
	listing.RequiredDocuments = append([]entity.DocumentType{}, listing.RequiredDocuments...)
	return &listing, nil
}
