package domain

import "fmt"

// Role is a Wanderer access-list role. The wire values match what the
// Wanderer API accepts, including the "-blocked-" form.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
	RoleViewer  Role = "viewer"
	RoleBlocked Role = "-blocked-"
)

// Precedence returns the rank used to resolve conflicting assignments.
// Higher wins: a character that is both admin and manager is an admin.
func (r Role) Precedence() int {
	switch r {
	case RoleAdmin:
		return 4
	case RoleManager:
		return 3
	case RoleMember:
		return 2
	case RoleViewer:
		return 1
	case RoleBlocked:
		return 0
	}
	return -1
}

// Elevated reports whether the role grants map management rights.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleMember, RoleViewer, RoleBlocked:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown access list role %q", s)
}

// Member is one entry on a remote access list.
type Member struct {
	CharacterID int64
	Role        Role
}

// ACLRef carries everything needed to address one access list on a
// Wanderer instance.
type ACLRef struct {
	BaseURL string
	ID      string
	APIKey  string
}

// ACLInfo describes an access list as returned by the map ACL listing.
// The API never returns the ACL api_key on this endpoint.
type ACLInfo struct {
	ID          string
	Name        string
	Description string
	OwnerEveID  string
}

// ManagedMap is a Wanderer map whose access list this service manages.
type ManagedMap struct {
	ID               int64
	Name             string
	Slug             string
	WandererURL      string
	MapAPIKey        string
	ACLID            string
	ACLAPIKey        string
	OwnerCharacterID int64
}

// HasACL reports whether the map already has a provisioned access list.
func (m ManagedMap) HasACL() bool {
	return m.ACLID != "" && m.ACLAPIKey != ""
}

// ACLRef returns the remote address of the map's access list.
func (m ManagedMap) ACLRef() ACLRef {
	return ACLRef{BaseURL: m.WandererURL, ID: m.ACLID, APIKey: m.ACLAPIKey}
}

// ManagedACLName is the name given to access lists this service creates,
// used to recognize them in map ACL listings.
func ManagedACLName(slug string) string {
	return "AA ACL " + slug
}

// ManagedACLDescription marks an access list as service-managed so map
// owners know not to edit it by hand.
func ManagedACLDescription(slug string) string {
	return fmt.Sprintf("Access list managed by wanderer-acl-sync for the map %s. Do not manually edit.", slug)
}
