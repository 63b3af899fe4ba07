package formatting

import (
	"fmt"
	"strings"

	"wanderer-acl-sync/internal/core/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxListedFailures keeps webhook messages short on maps with many
// failing characters.
const maxListedFailures = 5

var titleCaser = cases.Title(language.English)

func MsgSyncFailure(mapSlug string, failures []domain.CharacterOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ACL sync for map **%s** finished with %d failed character(s):\n", mapSlug, len(failures))

	for i, f := range failures {
		if i == maxListedFailures {
			fmt.Fprintf(&b, "… and %d more\n", len(failures)-maxListedFailures)
			break
		}
		fmt.Fprintf(&b, "- character %d: %s to %s failed: %v\n", f.CharacterID, actionVerb(f.Action), RoleName(f.Role), f.Err)
	}

	b.WriteString("Succeeded characters were applied; the rest retry on the next sync.")
	return b.String()
}

func MsgPassError(mapSlug string, err error) string {
	return fmt.Sprintf("ACL sync for map **%s** aborted: %v", mapSlug, err)
}

// RoleName renders a role for humans ("admin" -> "Admin",
// "-blocked-" -> "Blocked").
func RoleName(role domain.Role) string {
	return titleCaser.String(strings.Trim(string(role), "-"))
}

func actionVerb(action domain.Action) string {
	switch action {
	case domain.ActionAdd:
		return "add"
	case domain.ActionUpdate:
		return "role update"
	case domain.ActionDemote:
		return "demotion"
	case domain.ActionRemove:
		return "removal"
	}
	return string(action)
}
