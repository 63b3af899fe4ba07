package ports

import (
	"context"

	"wanderer-acl-sync/internal/core/domain"
)

// Repository is the role source: managed map records plus the
// admin/manager assignments that determine desired roles.
type Repository interface {
	GetMap(ctx context.Context, mapID int64) (*domain.ManagedMap, error)
	ListMaps(ctx context.Context) ([]domain.ManagedMap, error)
	SaveACLCredentials(ctx context.Context, mapID int64, aclID, aclAPIKey string) error

	GetAdminCharacterIDs(ctx context.Context, mapID int64) ([]int64, error)
	GetManagerCharacterIDs(ctx context.Context, mapID int64) ([]int64, error)

	Close()
}

// ACLClient issues operations against access lists on a Wanderer
// instance. Implementations translate HTTP failures into the domain
// error classes; none of the calls are atomic across each other.
type ACLClient interface {
	ListMembers(ctx context.Context, acl domain.ACLRef) ([]domain.Member, error)
	AddMember(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error
	SetRole(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error
	RemoveMember(ctx context.Context, acl domain.ACLRef, characterID int64) error
	GetMemberRole(ctx context.Context, acl domain.ACLRef, characterID int64) (domain.Role, error)

	CreateACL(ctx context.Context, m domain.ManagedMap) (aclID, aclAPIKey string, err error)
	ListMapACLs(ctx context.Context, m domain.ManagedMap) ([]domain.ACLInfo, error)
}

// ChangeFeed delivers map ids whose admin/manager assignments changed.
// The channel closes when the feed stops; the sync service falls back to
// its periodic sweep.
type ChangeFeed interface {
	Listen(ctx context.Context) (<-chan int64, error)
}

// NotificationService surfaces failed passes to operators.
type NotificationService interface {
	SendSyncFailure(m domain.ManagedMap, result *domain.ReconciliationResult) error
	SendPassError(m domain.ManagedMap, err error) error
}
