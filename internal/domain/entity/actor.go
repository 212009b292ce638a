package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

// Actor is the identity and role supplied by the external identity provider
type Actor struct {
	ID   string
	Role Role
}

// NewActor validates raw identity input
func NewActor(id, role string) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, fmt.Errorf("%w: actor id is required", errs.ErrInvalidRequest)
	}
	r, err := ParseRole(role)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: r}, nil
}
