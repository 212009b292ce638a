// Package access decides which actors may act on a transaction.
package access

import (
	"github.com/casbin/casbin"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

// Action is an operation checked against the policy
type Action string

// Actions
const (
	ActionView             Action = "view"
	ActionUploadDocument   Action = "upload_document"
	ActionValidateDocument Action = "validate_document"
	ActionChangeStatus     Action = "change_status"
	ActionScheduleMeeting  Action = "schedule_meeting"
	ActionAddNote          Action = "add_note"
	ActionComplete         Action = "complete"
	ActionClaim            Action = "claim"
	ActionDelete           Action = "delete"
)

// Relation is how an actor stands toward one transaction
type Relation string

// Relations
const (
	RelationBuyer         Relation = "buyer"
	RelationAgent         Relation = "agent"
	RelationBoundNotary   Relation = "bound_notary"
	RelationQueueNotary   Relation = "queue_notary"
	RelationAdministrator Relation = "administrator"
	RelationOutsider      Relation = "outsider"
)

const transactionObject = "transaction"

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// rules grants actions per relation. Outsiders get nothing.
var rules = map[Relation][]Action{
	RelationBuyer: {
		ActionView, ActionUploadDocument, ActionChangeStatus, ActionScheduleMeeting, ActionAddNote,
	},
	RelationAgent: {
		ActionView, ActionUploadDocument, ActionChangeStatus, ActionScheduleMeeting, ActionAddNote,
	},
	RelationBoundNotary: {
		ActionView, ActionValidateDocument, ActionComplete, ActionChangeStatus,
		ActionScheduleMeeting, ActionAddNote, ActionClaim,
	},
	// an unbound transaction is open to every notary so the queue can be browsed and claimed
	RelationQueueNotary: {
		ActionView, ActionValidateDocument, ActionComplete, ActionClaim,
	},
	RelationAdministrator: {
		ActionDelete,
	},
}

// Policy evaluates the relation/action table with a casbin enforcer.
// It holds no per-transaction state and is safe for concurrent use.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the enforcer from the in-code model and rule table
func NewPolicy() *Policy {
	enforcer := casbin.NewEnforcer(casbin.NewModel(modelText), false)
	for relation, actions := range rules {
		for _, action := range actions {
			enforcer.AddPolicy(string(relation), transactionObject, string(action))
		}
	}
	return &Policy{enforcer: enforcer}
}

// RelationOf resolves the actor's relation. Both id and role must match a party.
func RelationOf(tx *entity.Transaction, actorID string, role entity.Role) Relation {
	if tx == nil || actorID == "" {
		return RelationOutsider
	}
	switch role {
	case entity.RoleBuyer:
		if tx.BuyerID == actorID {
			return RelationBuyer
		}
	case entity.RoleAgent:
		if tx.AgentID == actorID {
			return RelationAgent
		}
	case entity.RoleNotary:
		if tx.NotaryID == actorID {
			return RelationBoundNotary
		}
		if !tx.HasNotary() {
			return RelationQueueNotary
		}
	case entity.RoleAdmin:
		return RelationAdministrator
	}
	return RelationOutsider
}

// CanPerform reports whether the actor may perform action on tx
func (p *Policy) CanPerform(action Action, tx *entity.Transaction, actorID string, role entity.Role) bool {
	relation := RelationOf(tx, actorID, role)
	if relation == RelationOutsider {
		return false
	}
	return p.enforcer.Enforce(string(relation), transactionObject, string(action))
}

// Authorize is CanPerform returning a typed Unauthorized failure
func (p *Policy) Authorize(action Action, tx *entity.Transaction, actor entity.Actor) error {
	if p.CanPerform(action, tx, actor.ID, actor.Role) {
		return nil
	}
	txID := ""
	if tx != nil {
		txID = tx.ID
	}
	return errs.NewUnauthorizedError(txID, actor.ID, string(actor.Role), string(action))
}
