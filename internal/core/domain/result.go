package domain

// Action is the kind of mutation the reconciler issued for a character.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDemote Action = "demote"
	ActionRemove Action = "remove"
)

// CharacterOutcome records one attempted mutation during a pass.
type CharacterOutcome struct {
	CharacterID int64
	Action      Action
	Role        Role
	Err         error
}

func (o CharacterOutcome) Failed() bool {
	return o.Err != nil
}

// ReconciliationResult summarizes a single reconciliation pass. It is
// ephemeral: returned to the caller for logging and alerting, never
// persisted.
type ReconciliationResult struct {
	Outcomes []CharacterOutcome
}

func (r *ReconciliationResult) Record(characterID int64, action Action, role Role, err error) {
	r.Outcomes = append(r.Outcomes, CharacterOutcome{
		CharacterID: characterID,
		Action:      action,
		Role:        role,
		Err:         err,
	})
}

// OK reports whether every attempted mutation succeeded. An empty pass
// (nothing to change) is OK.
func (r *ReconciliationResult) OK() bool {
	for _, o := range r.Outcomes {
		if o.Failed() {
			return false
		}
	}
	return true
}

func (r *ReconciliationResult) Failures() []CharacterOutcome {
	var failed []CharacterOutcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Mutations is the number of remote calls the pass attempted.
func (r *ReconciliationResult) Mutations() int {
	return len(r.Outcomes)
}
