package sync

import (
	"context"
	"fmt"

	"wanderer-acl-sync/internal/core/domain"
	"wanderer-acl-sync/internal/core/ports"
)

// Resolver computes the desired elevated roles for a map from its
// admin/manager assignments. The result contains only ADMIN and MANAGER
// entries; everyone else on the ACL is left to the reconciler, which
// demotes them to member rather than removing them.
type Resolver struct {
	storage ports.Repository
}

func NewResolver(storage ports.Repository) *Resolver {
	return &Resolver{storage: storage}
}

// ResolveDesiredRoles returns the character_id -> role mapping for one
// map, recomputed fresh on every call. ADMIN wins over MANAGER for a
// character that holds both assignments.
func (r *Resolver) ResolveDesiredRoles(ctx context.Context, mapID int64) (map[int64]domain.Role, error) {
	managers, err := r.storage.GetManagerCharacterIDs(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("resolve manager characters: %w", err)
	}

	admins, err := r.storage.GetAdminCharacterIDs(ctx, mapID)
	if err != nil {
		return nil, fmt.Errorf("resolve admin characters: %w", err)
	}

	desired := make(map[int64]domain.Role, len(managers)+len(admins))
	for _, id := range managers {
		assign(desired, id, domain.RoleManager)
	}
	for _, id := range admins {
		assign(desired, id, domain.RoleAdmin)
	}

	return desired, nil
}

func assign(desired map[int64]domain.Role, characterID int64, role domain.Role) {
	if current, ok := desired[characterID]; ok && current.Precedence() >= role.Precedence() {
		return
	}
	desired[characterID] = role
}
