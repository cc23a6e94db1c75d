package token

import (
	"fmt"
	"strings"
)

// Role is the account kind carried in the credential's role claim.
type Role string

const (
	RoleSportsman Role = "sportsman"
	RoleSponsor   Role = "sponsor"
	RoleRegion    Role = "region"
)

// Roles lists every known role in display order.
func Roles() []Role {
	return []Role{RoleSportsman, RoleSponsor, RoleRegion}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSportsman, RoleSponsor, RoleRegion:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q (supported: sportsman, sponsor, region)", s)
	}
	return r, nil
}
