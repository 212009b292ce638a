package entity

import "github.com/shopspring/decimal"

// PropertyStatus is the listing state reported by the property catalog
type PropertyStatus string

// Property statuses
const (
	PropertyPending   PropertyStatus = "pending"
	PropertyValidated PropertyStatus = "validated"
	PropertySold      PropertyStatus = "sold"
)

// PropertyListing is the catalog's view of a property at reservation time
type PropertyListing struct {
	ID                string
	AgentID           string
	Price             decimal.Decimal
	RequiredDocuments []DocumentType
	Status            PropertyStatus
}

// IsReservable reports whether a buyer may open a transaction on the listing
func (p *PropertyListing) IsReservable() bool {
	return p.Status == PropertyValidated
}
