package transaction

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/usecase/access"
)

// Get returns a transaction the actor may view
func (s *Service) Get(ctx context.Context, actor entity.Actor, transactionID string) (result *entity.Transaction, err error) {
	defer s.observe("get", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	if err = s.validator.ValidateID("transaction id", transactionID); err != nil {
		return nil, err
	}
	return s.load(ctx, actor, transactionID)
}

func (s *Service) load(ctx context.Context, actor entity.Actor, transactionID string) (*entity.Transaction, error) {
	tx, err := s.repo.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(access.ActionView, tx, actor); err != nil {
		return nil, err
	}
	return tx, nil
}

// Progress reports document validation progress and the meeting outlook
func (s *Service) Progress(ctx context.Context, actor entity.Actor, transactionID string) (result *usecase.ProgressView, err error) {
	defer s.observe("progress", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	if err = s.validator.ValidateID("transaction id", transactionID); err != nil {
		return nil, err
	}
	tx, err := s.load(ctx, actor, transactionID)
	if err != nil {
		return nil, err
	}

	now := s.manager.Now()
	missing := tx.MissingDocuments()
	if missing == nil {
		missing = []entity.DocumentType{}
	}
	return &usecase.ProgressView{
		TransactionID:    tx.ID,
		Status:           tx.Status,
		Progress:         tx.Progress(),
		MissingDocuments: missing,
		UpcomingMeetings: len(tx.UpcomingMeetings(now)),
		NextMeeting:      tx.NextMeeting(now),
	}, nil
}

// ListForActor returns the transactions the actor is party to
func (s *Service) ListForActor(ctx context.Context, actor entity.Actor) (result []*entity.Transaction, err error) {
	defer s.observe("list_for_actor", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	txs, err := s.repo.ListByRole(ctx, actor.Role, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.visible(txs, actor), nil
}

// ListByProperty returns the property's transactions visible to the actor
func (s *Service) ListByProperty(ctx context.Context, actor entity.Actor, propertyID string) (result []*entity.Transaction, err error) {
	defer s.observe("list_by_property", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	if err = s.validator.ValidateID("property id", propertyID); err != nil {
		return nil, err
	}
	txs, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return s.visible(txs, actor), nil
}

// ListActive returns the active transactions visible to the actor
func (s *Service) ListActive(ctx context.Context, actor entity.Actor) (result []*entity.Transaction, err error) {
	defer s.observe("list_active", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	txs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.visible(txs, actor), nil
}

// Summary aggregates the actor's transactions for a dashboard
func (s *Service) Summary(ctx context.Context, actor entity.Actor) (result *usecase.Summary, err error) {
	defer s.observe("summary", s.timeProvider.Now(), actor, &err)

	if err = s.validator.ValidateActor(actor); err != nil {
		return nil, err
	}
	txs, err := s.repo.ListByRole(ctx, actor.Role, actor.ID)
	if err != nil {
		return nil, err
	}

	summary := &usecase.Summary{
		ByStatus:       make(map[entity.Status]int, len(entity.AllStatuses)),
		CompletedValue: entity.NormalizePrice(decimal.Zero),
	}
	for _, status := range entity.AllStatuses {
		summary.ByStatus[status] = 0
	}
	for _, tx := range s.visible(txs, actor) {
		summary.Total++
		summary.ByStatus[tx.Status]++
		if tx.IsActive() {
			summary.Active++
		}
		if tx.Status == entity.StatusCompleted && tx.FinalPrice.Valid {
			summary.CompletedValue = summary.CompletedValue.Add(tx.FinalPrice.Decimal)
		}
	}
	return summary, nil
}

func (s *Service) visible(txs []*entity.Transaction, actor entity.Actor) []*entity.Transaction {
	out := make([]*entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if s.policy.CanPerform(access.ActionView, tx, actor.ID, actor.Role) {
			out = append(out, tx)
		}
	}
	return out
}
