package core

// IDGenerator produces globally unique opaque identifiers
// for transactions, meetings and notes
type IDGenerator interface {
	NewID() string
}
