// Package transaction implements the purchase transaction façade: every
// mutation is validated, authorized, applied and persisted under a per-id lock.
package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/catalog"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/usecase/access"
)

const propertyLockPrefix = "property:"

var _ usecase.TransactionUseCase = (*Service)(nil)

// Service ties together the components for transaction processing
type Service struct {
	repo               persistence.TransactionRepository
	catalog            catalog.PropertyCatalog
	ids                coreport.IDGenerator
	timeProvider       coreport.TimeProvider
	logger             coreport.Logger
	metrics            coreport.MetricsRecorder
	manager            *TransactionManager
	validator          *RequestValidator
	idempotencyHandler *IdempotencyHandler
	policy             *access.Policy
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	repo persistence.TransactionRepository,
	locks persistence.TransactionLockRepository,
	propertyCatalog catalog.PropertyCatalog,
	ids coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.MetricsRecorder,
	config RetryConfig,
) *Service {
	return &Service{
		repo:               repo,
		catalog:            propertyCatalog,
		ids:                ids,
		timeProvider:       timeProvider,
		logger:             logger,
		metrics:            metrics,
		manager:            NewTransactionManager(repo, locks, ids, timeProvider, logger, metrics, config),
		validator:          NewRequestValidator(),
		idempotencyHandler: NewIdempotencyHandler(repo),
		policy:             access.NewPolicy(),
	}
}

// Policy exposes the access policy so outer layers can render allowed actions
func (s *Service) Policy() *access.Policy {
	return s.policy
}

// observe records the outcome of an operation; call it deferred with a pointer to the named error
func (s *Service) observe(operation string, started time.Time, actor entity.Actor, err *error) {
	outcome := "success"
	if *err != nil {
		outcome = string(errs.Classify(*err))
		fields := errs.LogFieldsOf(*err)
		fields["operation"] = operation
		fields["actor_id"] = actor.ID
		fields["actor_role"] = actor.Role
		if errs.Classify(*err) == errs.ClassInternal {
			s.logger.Error("Transaction operation failed", fields)
		} else {
			s.logger.Debug("Transaction operation rejected", fields)
		}
	}
	s.metrics.ObserveOperation(operation, outcome, s.timeProvider.Since(started).Std().Seconds())
}

// Reserve opens a transaction for a buyer on a validated property
func (s *Service) Reserve(ctx context.Context, actor entity.Actor, req usecase.ReserveRequest) (result *entity.Transaction, err error) {
	defer s.observe("reserve", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	offer, err := s.validator.ValidateReserve(req)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleBuyer {
		return nil, errs.NewUnauthorizedError("", actor.ID, string(actor.Role), "reserve")
	}

	err = s.manager.WithLock(ctx, "reserve", propertyLockPrefix+req.PropertyID, func(ctx context.Context) error {
		existing, found, err := s.idempotencyHandler.CheckReservation(ctx, req.PropertyID, actor.ID)
		if err != nil {
			return err
		}
		if found {
			s.logger.Info("Returning existing reservation", map[string]any{
				"transaction_id": existing.ID,
				"property_id":    req.PropertyID,
				"buyer_id":       actor.ID,
			})
			result = existing
			return nil
		}

		tx, err := s.newReservation(ctx, actor, req, offer)
		if err != nil {
			return err
		}
		if _, err := s.repo.Create(ctx, tx); err != nil {
			return err
		}

		s.logger.Info("Transaction reserved", map[string]any{
			"transaction_id": tx.ID,
			"property_id":    tx.PropertyID,
			"buyer_id":       tx.BuyerID,
			"agent_id":       tx.AgentID,
			"final_price":    entity.FormatNullPrice(tx.FinalPrice),
			"required_docs":  len(tx.RequiredDocuments),
		})
		result = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) newReservation(
	ctx context.Context,
	actor entity.Actor,
	req usecase.ReserveRequest,
	offer decimal.NullDecimal,
) (*entity.Transaction, error) {
	listing, err := s.catalog.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !listing.IsReservable() {
		return nil, fmt.Errorf("%w: property %s is %s", errs.ErrPropertyUnavailable, listing.ID, listing.Status)
	}
	if listing.AgentID != req.AgentID {
		return nil, fmt.Errorf("%w: agent %s does not list property %s", errs.ErrInvalidRequest, req.AgentID, listing.ID)
	}

	price := offer
	if !price.Valid {
		price = decimal.NullDecimal{Decimal: listing.Price, Valid: true}
	}

	now := s.manager.Now()
	tx, err := entity.NewTransaction(entity.NewTransactionParams{
		ID:                s.ids.NewID(),
		PropertyID:        listing.ID,
		BuyerID:           actor.ID,
		AgentID:           listing.AgentID,
		FinalPrice:        price,
		RequiredDocuments: listing.RequiredDocuments,
	}, now)
	if err != nil {
		return nil, err
	}

	if note := strings.TrimSpace(req.Note); note != "" {
		if _, err := tx.AddNote(actor.ID, note, entity.NoteInitialOffer, now); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// UploadDocument attaches a document reference and lets the state machine advance
func (s *Service) UploadDocument(ctx context.Context, actor entity.Actor, req usecase.UploadDocumentRequest) (result *entity.Transaction, err error) {
	defer s.observe("upload_document", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	docType, err := s.validator.ValidateUpload(req)
	if err != nil {
		return nil, err
	}

	return s.manager.Mutate(ctx, "upload_document", req.TransactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(access.ActionUploadDocument, tx, actor); err != nil {
			return err
		}
		return tx.AttachDocument(docType, strings.TrimSpace(req.DocumentRef), actor.ID, now)
	})
}

// ValidateDocument records a notary's decision on an uploaded document
func (s *Service) ValidateDocument(ctx context.Context, actor entity.Actor, req usecase.ValidateDocumentRequest) (result *entity.Transaction, err error) {
	defer s.observe("validate_document", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	docType, err := s.validator.ValidateValidation(req)
	if err != nil {
		return nil, err
	}

	return s.manager.Mutate(ctx, "validate_document", req.TransactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(access.ActionValidateDocument, tx, actor); err != nil {
			return err
		}
		return tx.ValidateDocument(docType, actor.ID, req.Approve, req.Notes, now)
	})
}

// SetStatus applies an explicit status change. Completion needs the complete capability.
func (s *Service) SetStatus(ctx context.Context, actor entity.Actor, req usecase.SetStatusRequest) (result *entity.Transaction, err error) {
	defer s.observe("set_status", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	status, err := s.validator.ValidateSetStatus(req)
	if err != nil {
		return nil, err
	}

	action := access.ActionChangeStatus
	if status == entity.StatusCompleted {
		action = access.ActionComplete
	}

	return s.manager.Mutate(ctx, "set_status", req.TransactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(action, tx, actor); err != nil {
			return err
		}
		return tx.RequestStatus(status, actor.ID, strings.TrimSpace(req.Reason), now)
	})
}

// Claim binds the calling notary to an unbound transaction
func (s *Service) Claim(ctx context.Context, actor entity.Actor, transactionID string) (result *entity.Transaction, err error) {
	defer s.observe("claim", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	if err = s.validator.ValidateID("transaction id", transactionID); err != nil {
		return nil, err
	}

	return s.manager.Mutate(ctx, "claim", transactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(access.ActionClaim, tx, actor); err != nil {
			return err
		}
		return tx.Claim(actor.ID, now)
	})
}

// ScheduleMeeting appends a meeting to the transaction
func (s *Service) ScheduleMeeting(ctx context.Context, actor entity.Actor, req usecase.ScheduleMeetingRequest) (result *entity.Transaction, err error) {
	defer s.observe("schedule_meeting", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	input, err := s.validator.ValidateSchedule(req)
	if err != nil {
		return nil, err
	}

	return s.manager.Mutate(ctx, "schedule_meeting", req.TransactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(access.ActionScheduleMeeting, tx, actor); err != nil {
			return err
		}
		_, err := tx.ScheduleMeeting(input, actor.ID, now)
		return err
	})
}

// UpdateMeetingStatus starts, completes or cancels a meeting
func (s *Service) UpdateMeetingStatus(ctx context.Context, actor entity.Actor, req usecase.UpdateMeetingRequest) (result *entity.Transaction, err error) {
	defer s.observe("update_meeting", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	status, err := s.validator.ValidateMeetingUpdate(req)
	if err != nil {
		return nil, err
	}

	return s.manager.Mutate(ctx, "update_meeting", req.TransactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(access.ActionScheduleMeeting, tx, actor); err != nil {
			return err
		}
		_, err := tx.UpdateMeetingStatus(req.MeetingID, status, actor.ID, now)
		return err
	})
}

// RescheduleMeeting moves a meeting that has not started to a new time
func (s *Service) RescheduleMeeting(ctx context.Context, actor entity.Actor, req usecase.RescheduleMeetingRequest) (result *entity.Transaction, err error) {
	defer s.observe("reschedule_meeting", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	if err = s.validator.ValidateReschedule(req); err != nil {
		return nil, err
	}

	return s.manager.Mutate(ctx, "reschedule_meeting", req.TransactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(access.ActionScheduleMeeting, tx, actor); err != nil {
			return err
		}
		_, err := tx.RescheduleMeeting(req.MeetingID, req.ScheduledAt, req.Location, actor.ID, now)
		return err
	})
}

// AddNote appends a communication entry
func (s *Service) AddNote(ctx context.Context, actor entity.Actor, req usecase.AddNoteRequest) (result *entity.Transaction, err error) {
	defer s.observe("add_note", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	category, err := s.validator.ValidateNote(req)
	if err != nil {
		return nil, err
	}

	return s.manager.Mutate(ctx, "add_note", req.TransactionID, func(tx *entity.Transaction, now time.Time) error {
		if err := s.policy.Authorize(access.ActionAddNote, tx, actor); err != nil {
			return err
		}
		_, err := tx.AddNote(actor.ID, strings.TrimSpace(req.Body), category, now)
		return err
	})
}

// Delete removes a transaction. Only administrators may do this.
func (s *Service) Delete(ctx context.Context, actor entity.Actor, transactionID string) (err error) {
	defer s.observe("delete", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return err
	}
	if err = s.validator.ValidateID("transaction id", transactionID); err != nil {
		return err
	}

	return s.manager.WithLock(ctx, "delete", transactionID, func(ctx context.Context) error {
		tx, err := s.repo.Get(ctx, transactionID)
		if err != nil {
			return err
		}
		if err := s.policy.Authorize(access.ActionDelete, tx, actor); err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, transactionID)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: %s", errs.ErrTransactionNotFound, transactionID)
		}

		s.logger.Info("Transaction deleted", map[string]any{
			"transaction_id": transactionID,
			"actor_id":       actor.ID,
		})
		return nil
	})
}
