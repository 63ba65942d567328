package constants

// Role is the closed set of user roles. The store keeps the role as a plain
// string; parsing funnels through ParseRole so unrecognized values cannot
// leak into role checks.
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RolePhlebotomyManager Role = "PHLEBOTOMY MANAGER"
	RoleLogisticManager   Role = "LOGISTIC MANAGER"
	RoleSalesManager      Role = "SALES MANAGER"
	RolePhlebotomist      Role = "PHLEBOTOMIST"
	RoleLogistic          Role = "LOGISTIC"
	RoleSales             Role = "SALES"
)

var allRoles = []Role{
	RoleAdmin,
	RolePhlebotomyManager,
	RoleLogisticManager,
	RoleSalesManager,
	RolePhlebotomist,
	RoleLogistic,
	RoleSales,
}

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsManagerTier reports whether the role sees organization-wide data
// (dashboards, archives, user management) rather than only its own
// assignments. Admin plus the three manager roles.
func (r Role) IsManagerTier() bool {
	switch r {
	case RoleAdmin, RolePhlebotomyManager, RoleLogisticManager, RoleSalesManager:
		return true
	}
	return false
}

// ParseRole maps a stored role string to a Role. Unknown strings come back
// as-is with ok=false so callers can decide whether to drop or keep them.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
