package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"wanderer-acl-sync/internal/core/domain"
	"wanderer-acl-sync/internal/core/ports"
	"wanderer-acl-sync/internal/metrics"
)

// Reconciler makes a remote access list match a desired role mapping.
// Every mutation is attempted independently: one character failing never
// aborts the rest of the pass, and nothing is rolled back. Re-running a
// pass against unchanged remote state issues zero mutations.
type Reconciler struct {
	client ports.ACLClient
}

func NewReconciler(client ports.ACLClient) *Reconciler {
	return &Reconciler{client: client}
}

// Reconcile diffs desired against the current ACL members and applies
// adds, role updates and demotions. It returns an error only when the
// member listing itself fails; per-character failures live in the result.
func (r *Reconciler) Reconcile(ctx context.Context, m domain.ManagedMap, desired map[int64]domain.Role) (*domain.ReconciliationResult, error) {
	actual, err := r.client.ListMembers(ctx, m.ACLRef())
	if err != nil {
		return nil, fmt.Errorf("reconcile map %s: %w", m.Slug, err)
	}

	actualRoles := make(map[int64]domain.Role, len(actual))
	for _, member := range actual {
		actualRoles[member.CharacterID] = member.Role
	}

	result := &domain.ReconciliationResult{}

	for _, characterID := range sortedKeys(desired) {
		want := desired[characterID]
		have, onACL := actualRoles[characterID]

		switch {
		case !onACL:
			err := r.client.AddMember(ctx, m.ACLRef(), characterID, want)
			r.record(result, m, characterID, domain.ActionAdd, want, err)
		case have != want:
			err := r.client.SetRole(ctx, m.ACLRef(), characterID, want)
			r.record(result, m, characterID, domain.ActionUpdate, want, err)
		}
	}

	// Characters that still hold a non-member role but are no longer
	// assigned one get demoted to member. They keep map access; removal
	// and blocking are explicit operations, never implied by absence.
	for _, characterID := range sortedKeys(actualRoles) {
		if _, wanted := desired[characterID]; wanted {
			continue
		}
		if actualRoles[characterID] == domain.RoleMember {
			continue
		}

		err := r.client.SetRole(ctx, m.ACLRef(), characterID, domain.RoleMember)
		if errors.Is(err, domain.ErrNotFound) {
			// Member left the ACL between list and put; demotion is
			// already satisfied.
			err = nil
		}
		r.record(result, m, characterID, domain.ActionDemote, domain.RoleMember, err)
	}

	return result, nil
}

// PurgeMember removes a character from the map's access list outright,
// used when a map is torn down. An already-absent member counts as done.
func (r *Reconciler) PurgeMember(ctx context.Context, m domain.ManagedMap, characterID int64) error {
	err := r.client.RemoveMember(ctx, m.ACLRef(), characterID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("purge member %d from map %s: %w", characterID, m.Slug, err)
	}
	return nil
}

func (r *Reconciler) record(result *domain.ReconciliationResult, m domain.ManagedMap, characterID int64, action domain.Action, role domain.Role, err error) {
	result.Record(characterID, action, role, err)

	if err != nil {
		slog.Warn("ACL mutation failed",
			"map", m.Slug,
			"character_id", characterID,
			"action", string(action),
			"role", string(role),
			"error", err,
		)
		metrics.ReconciliationMutations.WithLabelValues(string(action), "failure").Inc()
		return
	}

	slog.Debug("ACL mutation applied",
		"map", m.Slug,
		"character_id", characterID,
		"action", string(action),
		"role", string(role),
	)
	metrics.ReconciliationMutations.WithLabelValues(string(action), "success").Inc()
}

// sortedKeys keeps mutation order deterministic so logs and results are
// stable across passes.
func sortedKeys(roles map[int64]domain.Role) []int64 {
	keys := make([]int64, 0, len(roles))
	for id := range roles {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
