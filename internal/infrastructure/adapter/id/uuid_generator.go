package id

import (
	"github.com/google/uuid"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
)

var _ core.IDGenerator = (*UUIDGenerator)(nil)

// UUIDGenerator issues random version 4 UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
