package sync

import (
	"context"
	"fmt"
	"log/slog"

	"wanderer-acl-sync/internal/core/domain"
	"wanderer-acl-sync/internal/core/ports"
)

// Provisioner creates an access list for maps that do not have one yet
// and persists the returned credentials.
type Provisioner struct {
	client  ports.ACLClient
	storage ports.Repository
}

func NewProvisioner(client ports.ACLClient, storage ports.Repository) *Provisioner {
	return &Provisioner{client: client, storage: storage}
}

// EnsureACL makes sure m refers to a provisioned access list, creating
// one when missing. The listing endpoint never returns api keys, so an
// existing managed ACL whose credentials were lost cannot be re-adopted;
// it is reported and a fresh one is created.
func (p *Provisioner) EnsureACL(ctx context.Context, m *domain.ManagedMap) error {
	if m.HasACL() {
		return nil
	}

	acls, err := p.client.ListMapACLs(ctx, *m)
	if err != nil {
		return fmt.Errorf("ensure acl for map %s: %w", m.Slug, err)
	}
	for _, acl := range acls {
		if acl.Name == domain.ManagedACLName(m.Slug) {
			slog.Warn("Found a managed ACL with no stored credentials, creating a replacement",
				"map", m.Slug,
				"orphaned_acl_id", acl.ID,
			)
		}
	}

	aclID, aclKey, err := p.client.CreateACL(ctx, *m)
	if err != nil {
		return fmt.Errorf("ensure acl for map %s: %w", m.Slug, err)
	}

	if err := p.storage.SaveACLCredentials(ctx, m.ID, aclID, aclKey); err != nil {
		return fmt.Errorf("ensure acl for map %s: save credentials: %w", m.Slug, err)
	}

	m.ACLID = aclID
	m.ACLAPIKey = aclKey
	return nil
}
