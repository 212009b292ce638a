package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

// transitions is the status graph; any edge not listed is rejected
var transitions = map[Status]map[Status]struct{}{
	StatusPending:          toSet(StatusDocumentsPending, StatusCancelled),
	StatusDocumentsPending: toSet(StatusUnderReview, StatusCancelled),
	StatusUnderReview:      toSet(StatusCompleted, StatusCancelled),
}

func toSet(statuses ...Status) map[Status]struct{} {
	set := make(map[Status]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// CanTransition reports whether from -> to is an edge of the status graph
func CanTransition(from, to Status) bool {
	_, ok := transitions[from][to]
	return ok
}

// NextStatuses lists the statuses reachable in one step from s
func NextStatuses(s Status) []Status {
	next := make([]Status, 0, 2)
	for _, candidate := range AllStatuses {
		if CanTransition(s, candidate) {
			next = append(next, candidate)
		}
	}
	return next
}

// ValidPath reports whether a sequence of statuses only follows graph edges
func ValidPath(path []Status) bool {
	for i := 1; i < len(path); i++ {
		if !CanTransition(path[i-1], path[i]) {
			return false
		}
	}
	return true
}

// RequestStatus applies an explicitly requested status change.
// Completion is routed through Complete so both paths share its guards.
func (t *Transaction) RequestStatus(to Status, actorID, reason string, now time.Time) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", errs.ErrInvalidStatus, to)
	}
	if t.Status.IsTerminal() {
		return errs.NewClosedTransactionError(t.ID, string(t.Status), string(to))
	}
	if !CanTransition(t.Status, to) {
		return errs.NewTransitionError(t.ID, string(t.Status), string(to), "edge is not in the transition graph")
	}

	switch to {
	case StatusCompleted:
		return t.Complete(actorID, reason, now)
	case StatusUnderReview:
		if missing := t.MissingDocuments(); len(missing) > 0 {
			return errs.NewTransitionError(t.ID, string(t.Status), string(to),
				"required documents missing: "+joinDocumentTypes(missing))
		}
	}

	t.transition(to, actorID, reason, Timestamp(now))
	return nil
}

// Complete moves an under-review transaction to completed once every required
// document is validated. An unbound notary is bound by completing.
func (t *Transaction) Complete(notaryID, reason string, now time.Time) error {
	if t.Status.IsTerminal() {
		return errs.NewClosedTransactionError(t.ID, string(t.Status), string(StatusCompleted))
	}
	if t.Status != StatusUnderReview {
		return errs.NewTransitionError(t.ID, string(t.Status), string(StatusCompleted),
			"only transactions under review can be completed")
	}

	progress := t.Progress()
	if !progress.IsComplete() {
		missing := make([]string, 0)
		for _, d := range t.UnvalidatedDocuments() {
			missing = append(missing, string(d))
		}
		return errs.NewIncompleteValidationError(t.ID, missing, progress.ValidatedCount, progress.TotalRequired)
	}

	ts := Timestamp(now)
	if !t.HasNotary() {
		t.NotaryID = notaryID
	}
	t.CompletedAt = &ts
	t.transition(StatusCompleted, notaryID, reason, ts)
	return nil
}

// Claim binds a notary to an unbound transaction. Claiming again as the bound notary is a no-op.
func (t *Transaction) Claim(notaryID string, now time.Time) error {
	if t.Status.IsTerminal() {
		return errs.NewClosedTransactionError(t.ID, string(t.Status), "claim")
	}
	if t.NotaryID == notaryID {
		return nil
	}
	if t.HasNotary() {
		return errs.NewUnauthorizedError(t.ID, notaryID, string(RoleNotary), "claim")
	}

	ts := Timestamp(now)
	t.NotaryID = notaryID
	t.appendNote(notaryID, "Notary assigned to transaction.", NoteSystem, ts)
	t.touch(ts)
	return nil
}

// evaluateDocuments advances the status after a document attach, one edge at a time
func (t *Transaction) evaluateDocuments(actorID string, now time.Time) {
	if t.Status == StatusPending {
		t.transition(StatusDocumentsPending, actorID, "document submission started", now)
	}
	if t.Status == StatusDocumentsPending && t.AllRequiredUploaded() {
		t.transition(StatusUnderReview, actorID, "all required documents uploaded", now)
	}
}

// transition records an edge, its system note and the new timestamp together
func (t *Transaction) transition(to Status, actorID, reason string, now time.Time) {
	from := t.Status
	t.Status = to
	t.History = append(t.History, StatusChange{
		From:    from,
		To:      to,
		ActorID: actorID,
		Reason:  reason,
		At:      now,
	})

	body := fmt.Sprintf("Status changed from %s to %s.", from, to)
	if reason != "" {
		body += " " + reason
	}
	t.appendNote(actorID, body, NoteSystem, now)
	t.touch(now)
}

func joinDocumentTypes(types []DocumentType) string {
	names := make([]string, len(types))
	for i, d := range types {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
