package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest       = 4001
	CodeInvalidAmount        = 4002
	CodeInvalidDocumentType  = 4003
	CodeDuplicateTransaction = 4004
	CodeInvalidStatus        = 4005
	CodeInvalidRole          = 4006
	CodeInvalidMeetingType   = 4007
	CodeInvalidNoteCategory  = 4008
	CodeInvalidMeetingStatus = 4009
	CodeUnauthorized         = 4030
	CodeTransactionNotFound  = 4040
	CodePropertyNotFound     = 4041
	CodeMeetingNotFound      = 4042
	CodeWriteConflict        = 4090
	CodeTransactionLocked    = 4091
	CodeInvalidTransition    = 4220
	CodeIncompleteValidation = 4221
	CodeNotUploaded          = 4222
	CodeTransactionClosed    = 4223
	CodePropertyUnavailable  = 4224

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeDatabaseConnection = 5001
)

// Base error types
var (
	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUnauthorized is returned when the actor lacks the capability for an action
	ErrUnauthorized = errors.New("actor is not authorized for this action")

	// ErrInvalidTransition is returned when a status change is not permitted from the current state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrIncompleteValidation is returned when completion is attempted before all required documents are validated
	ErrIncompleteValidation = errors.New("required documents are not all validated")

	// ErrNotUploaded is returned when validating a document type with no stored reference
	ErrNotUploaded = errors.New("document has not been uploaded")

	// ErrWriteConflict is returned when a concurrent write on the same transaction is detected
	ErrWriteConflict = errors.New("concurrent write conflict")

	// ErrInvalidDocumentType is returned for an unrecognized document type
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrTransactionClosed is returned when mutating a completed or cancelled transaction
	ErrTransactionClosed = errors.New("transaction is closed")

	// ErrTransactionLocked is returned when another writer holds the transaction lock
	ErrTransactionLocked = errors.New("transaction is locked by another operation")

	ErrInvalidRequest       = errors.New("invalid request")
	ErrInvalidAmount        = errors.New("invalid amount format")
	ErrInvalidStatus        = errors.New("invalid transaction status")
	ErrInvalidRole          = errors.New("invalid actor role")
	ErrInvalidMeetingType   = errors.New("invalid meeting type")
	ErrInvalidMeetingStatus = errors.New("invalid meeting status")
	ErrInvalidNoteCategory  = errors.New("invalid note category")
	ErrMeetingNotFound      = errors.New("meeting not found")

	// ErrPropertyNotFound is returned when the property catalog has no such listing
	ErrPropertyNotFound = errors.New("property not found")

	// ErrPropertyUnavailable is returned when a listing cannot be reserved
	ErrPropertyUnavailable = errors.New("property is not available for reservation")

	// ErrDuplicateTransaction is returned when a transaction with the same ID already exists
	ErrDuplicateTransaction = errors.New("transaction with this ID already exists")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrTransactionClosed):
		return CodeTransactionClosed
	case errors.Is(err, ErrTransactionLocked):
		return CodeTransactionLocked
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrIncompleteValidation):
		return CodeIncompleteValidation
	case errors.Is(err, ErrNotUploaded):
		return CodeNotUploaded
	case errors.Is(err, ErrWriteConflict):
		return CodeWriteConflict
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrPropertyNotFound):
		return CodePropertyNotFound
	case errors.Is(err, ErrMeetingNotFound):
		return CodeMeetingNotFound
	case errors.Is(err, ErrPropertyUnavailable):
		return CodePropertyUnavailable
	case errors.Is(err, ErrInvalidDocumentType):
		return CodeInvalidDocumentType
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidStatus):
		return CodeInvalidStatus
	case errors.Is(err, ErrInvalidRole):
		return CodeInvalidRole
	case errors.Is(err, ErrInvalidMeetingType):
		return CodeInvalidMeetingType
	case errors.Is(err, ErrInvalidMeetingStatus):
		return CodeInvalidMeetingStatus
	case errors.Is(err, ErrInvalidNoteCategory):
		return CodeInvalidNoteCategory
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// Class groups errors by how a caller should react to them
type Class string

const (
	// ClassNotFound means the referenced transaction, property or meeting does not exist
	ClassNotFound Class = "not_found"
	// ClassNotAllowed means the actor lacks authority; show a permission message
	ClassNotAllowed Class = "not_allowed"
	// ClassNotPossible means the action is not possible in the current state; disable it
	ClassNotPossible Class = "not_possible"
	// ClassRetry means a concurrent writer won; retry with a fresh read
	ClassRetry Class = "retry"
	// ClassInvalidInput means the request itself is malformed
	ClassInvalidInput Class = "invalid_input"
	// ClassInternal means an unexpected failure
	ClassInternal Class = "internal"
)

// Classify maps an error to the caller-facing class
func Classify(err error) Class {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWriteConflict), errors.Is(err, ErrTransactionLocked):
		return ClassRetry
	case errors.Is(err, ErrUnauthorized):
		return ClassNotAllowed
	case IsNotFoundError(err):
		return ClassNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrIncompleteValidation),
		errors.Is(err, ErrNotUploaded),
		errors.Is(err, ErrTransactionClosed),
		errors.Is(err, ErrPropertyUnavailable),
		errors.Is(err, ErrDuplicateTransaction):
		return ClassNotPossible
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidDocumentType),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidMeetingType),
		errors.Is(err, ErrInvalidMeetingStatus),
		errors.Is(err, ErrInvalidNoteCategory):
		return ClassInvalidInput
	default:
		return ClassInternal
	}
}

// TransitionError describes a rejected status change
type TransitionError struct {
	TransactionID string
	From          string
	To            string
	Reason        string
	Err           error
}

// Error implements the error interface for TransitionError
func (e *TransitionError) Error() string {
	return fmt.Sprintf("transaction %s cannot move from %s to %s: %s - %v",
		e.TransactionID, e.From, e.To, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Is reports every transition error as an ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LogFields returns a map of fields for structured logging
func (e *TransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "transition_error",
		"transaction_id": e.TransactionID,
		"from":           e.From,
		"to":             e.To,
		"reason":         e.Reason,
		"error":          e.Err.Error(),
		"error_code":     ErrorCode(e),
	}
}

// NewTransitionError creates an error for an edge that is not in the transition graph
func NewTransitionError(transactionID, from, to, reason string) error {
	return &TransitionError{
		TransactionID: transactionID,
		From:          from,
		To:            to,
		Reason:        reason,
		Err:           ErrInvalidTransition,
	}
}

// ClosedTransactionError describes a mutation attempted on a completed or cancelled transaction
type ClosedTransactionError struct {
	TransactionID string
	Status        string
	Action        string
}

// Error implements the error interface for ClosedTransactionError
func (e *ClosedTransactionError) Error() string {
	return fmt.Sprintf("transaction %s is %s; %s rejected", e.TransactionID, e.Status, e.Action)
}

// Unwrap returns the underlying error
func (e *ClosedTransactionError) Unwrap() error {
	return ErrTransactionClosed
}

// Is also reports a closed transaction as an ErrInvalidTransition
func (e *ClosedTransactionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LogFields returns a map of fields for structured logging
func (e *ClosedTransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "closed_transaction_error",
		"transaction_id": e.TransactionID,
		"status":         e.Status,
		"action":         e.Action,
		"error_code":     ErrorCode(e),
	}
}

// NewClosedTransactionError creates an error for a mutation attempted on a terminal transaction
func NewClosedTransactionError(transactionID, status, action string) error {
	return &ClosedTransactionError{
		TransactionID: transactionID,
		Status:        status,
		Action:        action,
	}
}

// IncompleteValidationError lists the required documents still lacking an approval
type IncompleteValidationError struct {
	TransactionID string
	Missing       []string
	Validated     int
	Required      int
}

// Error implements the error interface
func (e *IncompleteValidationError) Error() string {
	return fmt.Sprintf("transaction %s has %d of %d required documents validated (missing: %s)",
		e.TransactionID, e.Validated, e.Required, strings.Join(e.Missing, ", "))
}

// Is checks if the target error is an ErrIncompleteValidation
func (e *IncompleteValidationError) Is(target error) bool {
	return target == ErrIncompleteValidation
}

// LogFields returns a map of fields for structured logging
func (e *IncompleteValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "incomplete_validation",
		"transaction_id": e.TransactionID,
		"missing":        e.Missing,
		"validated":      e.Validated,
		"required":       e.Required,
		"error_code":     CodeIncompleteValidation,
	}
}

// NewIncompleteValidationError creates a new detailed incomplete validation error
func NewIncompleteValidationError(transactionID string, missing []string, validated, required int) error {
	return &IncompleteValidationError{
		TransactionID: transactionID,
		Missing:       missing,
		Validated:     validated,
		Required:      required,
	}
}

// UnauthorizedError records which actor was refused which action
type UnauthorizedError struct {
	TransactionID string
	ActorID       string
	Role          string
	Action        string
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	if e.TransactionID == "" {
		return fmt.Sprintf("%s %s not permitted to %s", e.Role, e.ActorID, e.Action)
	}
	return fmt.Sprintf("%s %s not permitted to %s on transaction %s",
		e.Role, e.ActorID, e.Action, e.TransactionID)
}

// Is checks if the target error is an ErrUnauthorized
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// LogFields returns a map of fields for structured logging
func (e *UnauthorizedError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "unauthorized",
		"transaction_id": e.TransactionID,
		"actor_id":       e.ActorID,
		"role":           e.Role,
		"action":         e.Action,
		"error_code":     CodeUnauthorized,
	}
}

// NewUnauthorizedError creates a new detailed unauthorized error
func NewUnauthorizedError(transactionID, actorID, role, action string) error {
	return &UnauthorizedError{
		TransactionID: transactionID,
		ActorID:       actorID,
		Role:          role,
		Action:        action,
	}
}

// WriteConflictError is returned when a save loses against a concurrent writer
type WriteConflictError struct {
	TransactionID   string
	ExpectedVersion uint64
	Reason          string
	Err             error
}

// Error implements the error interface
func (e *WriteConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("write conflict on transaction %s (expected version %d): %s - %v",
			e.TransactionID, e.ExpectedVersion, e.Reason, e.Err)
	}
	return fmt.Sprintf("write conflict on transaction %s (expected version %d): %s",
		e.TransactionID, e.ExpectedVersion, e.Reason)
}

// Unwrap returns the underlying error
func (e *WriteConflictError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrWriteConflict
func (e *WriteConflictError) Is(target error) bool {
	return target == ErrWriteConflict
}

// LogFields returns a map of fields for structured logging
func (e *WriteConflictError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":       "write_conflict",
		"transaction_id":   e.TransactionID,
		"expected_version": e.ExpectedVersion,
		"reason":           e.Reason,
		"error_code":       CodeWriteConflict,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewWriteConflictError creates an error for a stale version on save
func NewWriteConflictError(transactionID string, expectedVersion uint64, reason string) error {
	return &WriteConflictError{
		TransactionID:   transactionID,
		ExpectedVersion: expectedVersion,
		Reason:          reason,
	}
}

// NewLockConflictError creates a write conflict caused by a held transaction lock
func NewLockConflictError(key string) error {
	return &WriteConflictError{
		TransactionID: key,
		Reason:        "lock held by another writer",
		Err:           ErrTransactionLocked,
	}
}

// DocumentError describes a rejected document operation
type DocumentError struct {
	TransactionID string
	DocumentType  string
	Err           error
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s on transaction %s: %v", e.DocumentType, e.TransactionID, e.Err)
}

// Unwrap returns the underlying error
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *DocumentError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "document_error",
		"transaction_id": e.TransactionID,
		"document_type":  e.DocumentType,
		"error":          e.Err.Error(),
		"error_code":     ErrorCode(e.Err),
	}
}

// NewNotUploadedError creates an error for validating a missing document
func NewNotUploadedError(transactionID, documentType string) error {
	return &DocumentError{
		TransactionID: transactionID,
		DocumentType:  documentType,
		Err:           ErrNotUploaded,
	}
}

// LogFielder is implemented by errors that carry structured logging context
type LogFielder interface {
	LogFields() map[string]any
}

// LogFieldsOf returns structured fields for err, falling back to its message
func LogFieldsOf(err error) map[string]any {
	var lf LogFielder
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrPropertyNotFound) ||
		errors.Is(err, ErrMeetingNotFound)
}

// IsUnauthorizedError checks if the error is an authorization refusal
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsWriteConflictError checks if the error is a concurrent write conflict
func IsWriteConflictError(err error) bool {
	return errors.Is(err, ErrWriteConflict)
}

// IsInvalidTransitionError checks if the error is a rejected status change
func IsInvalidTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
