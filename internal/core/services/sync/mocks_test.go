package sync

import (
	"context"
	"sync"

	"wanderer-acl-sync/internal/core/domain"
)

type mockRepository struct {
	getMapFunc                 func(ctx context.Context, mapID int64) (*domain.ManagedMap, error)
	listMapsFunc               func(ctx context.Context) ([]domain.ManagedMap, error)
	saveACLCredentialsFunc     func(ctx context.Context, mapID int64, aclID, aclAPIKey string) error
	getAdminCharacterIDsFunc   func(ctx context.Context, mapID int64) ([]int64, error)
	getManagerCharacterIDsFunc func(ctx context.Context, mapID int64) ([]int64, error)
}

func (m *mockRepository) GetMap(ctx context.Context, mapID int64) (*domain.ManagedMap, error) {
	if m.getMapFunc != nil {
		return m.getMapFunc(ctx, mapID)
	}
	return &domain.ManagedMap{ID: mapID}, nil
}

func (m *mockRepository) ListMaps(ctx context.Context) ([]domain.ManagedMap, error) {
	if m.listMapsFunc != nil {
		return m.listMapsFunc(ctx)
	}
	return nil, nil
}

func (m *mockRepository) SaveACLCredentials(ctx context.Context, mapID int64, aclID, aclAPIKey string) error {
	if m.saveACLCredentialsFunc != nil {
		return m.saveACLCredentialsFunc(ctx, mapID, aclID, aclAPIKey)
	}
	return nil
}

func (m *mockRepository) GetAdminCharacterIDs(ctx context.Context, mapID int64) ([]int64, error) {
	if m.getAdminCharacterIDsFunc != nil {
		return m.getAdminCharacterIDsFunc(ctx, mapID)
	}
	return nil, nil
}

func (m *mockRepository) GetManagerCharacterIDs(ctx context.Context, mapID int64) ([]int64, error) {
	if m.getManagerCharacterIDsFunc != nil {
		return m.getManagerCharacterIDsFunc(ctx, mapID)
	}
	return nil, nil
}

func (m *mockRepository) Close() {}

type aclCall struct {
	op          string
	characterID int64
	role        domain.Role
}

type mockACLClient struct {
	mu    sync.Mutex
	calls []aclCall

	listMembersFunc   func(ctx context.Context, acl domain.ACLRef) ([]domain.Member, error)
	addMemberFunc     func(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error
	setRoleFunc       func(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error
	removeMemberFunc  func(ctx context.Context, acl domain.ACLRef, characterID int64) error
	getMemberRoleFunc func(ctx context.Context, acl domain.ACLRef, characterID int64) (domain.Role, error)
	createACLFunc     func(ctx context.Context, m domain.ManagedMap) (string, string, error)
	listMapACLsFunc   func(ctx context.Context, m domain.ManagedMap) ([]domain.ACLInfo, error)
}

func (m *mockACLClient) record(op string, characterID int64, role domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, aclCall{op: op, characterID: characterID, role: role})
}

// mutations returns the recorded mutating calls (list operations are not
// recorded).
func (m *mockACLClient) mutations() []aclCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]aclCall(nil), m.calls...)
}

func (m *mockACLClient) ListMembers(ctx context.Context, acl domain.ACLRef) ([]domain.Member, error) {
	if m.listMembersFunc != nil {
		return m.listMembersFunc(ctx, acl)
	}
	return nil, nil
}

func (m *mockACLClient) AddMember(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error {
	m.record("add", characterID, role)
	if m.addMemberFunc != nil {
		return m.addMemberFunc(ctx, acl, characterID, role)
	}
	return nil
}

func (m *mockACLClient) SetRole(ctx context.Context, acl domain.ACLRef, characterID int64, role domain.Role) error {
	m.record("set_role", characterID, role)
	if m.setRoleFunc != nil {
		return m.setRoleFunc(ctx, acl, characterID, role)
	}
	return nil
}

func (m *mockACLClient) RemoveMember(ctx context.Context, acl domain.ACLRef, characterID int64) error {
	m.record("remove", characterID, "")
	if m.removeMemberFunc != nil {
		return m.removeMemberFunc(ctx, acl, characterID)
	}
	return nil
}

func (m *mockACLClient) GetMemberRole(ctx context.Context, acl domain.ACLRef, characterID int64) (domain.Role, error) {
	if m.getMemberRoleFunc != nil {
		return m.getMemberRoleFunc(ctx, acl, characterID)
	}
	return domain.RoleMember, nil
}

func (m *mockACLClient) CreateACL(ctx context.Context, mm domain.ManagedMap) (string, string, error) {
	m.record("create_acl", 0, "")
	if m.createACLFunc != nil {
		return m.createACLFunc(ctx, mm)
	}
	return "acl-new", "key-new", nil
}

func (m *mockACLClient) ListMapACLs(ctx context.Context, mm domain.ManagedMap) ([]domain.ACLInfo, error) {
	if m.listMapACLsFunc != nil {
		return m.listMapACLsFunc(ctx, mm)
	}
	return nil, nil
}

type notifierCall struct {
	mapSlug   string
	passError error
	failures  int
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (m *mockNotifier) SendSyncFailure(mm domain.ManagedMap, result *domain.ReconciliationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, notifierCall{mapSlug: mm.Slug, failures: len(result.Failures())})
	return nil
}

func (m *mockNotifier) SendPassError(mm domain.ManagedMap, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, notifierCall{mapSlug: mm.Slug, passError: err})
	return nil
}

func (m *mockNotifier) sent() []notifierCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifierCall(nil), m.calls...)
}
