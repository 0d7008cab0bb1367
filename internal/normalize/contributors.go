package normalize

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/onix-export/internal/types"
)

// DefaultContributorRole is "By (author)".
const DefaultContributorRole = "A01"

var roleSeparator = regexp.MustCompile(`[+/ ]+`)

// Contributors parses a contributor string.
//
// FORMAT:
//
//	"Surname, Forename[, Role[+Role...]]; Surname, Forename[, Role]"
//
// Entries are separated by ";". An entry with three or more comma separated
// parts carries its role code(s) in the last part; roles may be joined by
// "+", "/" or spaces. Entries without a role get DefaultContributorRole.
// Sequence numbers start at 1 and follow input order.
func Contributors(raw string) []types.Contributor {
	s, ok := Text(raw)
	if !ok {
		return nil
	}

	var out []types.Contributor
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		name := entry
		role := ""
		if len(parts) >= 3 {
			role = parts[len(parts)-1]
			name = strings.TrimSpace(strings.Join(parts[:len(parts)-1], ", "))
		}

		var roles []string
		for _, r := range roleSeparator.Split(role, -1) {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}
		if len(roles) == 0 {
			roles = []string{DefaultContributorRole}
		}

		out = append(out, types.Contributor{Roles: roles, Name: name})
	}

	for i := range out {
		out[i].Sequence = i + 1
	}
	return out
}

// CombineContributors returns the contributors from primary when it is set,
// otherwise the concatenation of every fallback column in order, numbered as
// one sequence.
func CombineContributors(primary string, fallbacks ...string) []types.Contributor {
	if _, ok := Text(primary); ok {
		return Contributors(primary)
	}

	var out []types.Contributor
	for _, f := range fallbacks {
		out = append(out, Contributors(f)...)
	}
	for i := range out {
		out[i].Sequence = i + 1
	}
	return out
}
