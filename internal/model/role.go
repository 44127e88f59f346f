package model

// Role is an access level a user holds within a single sale. Roles are
// integer-ranked; the rank is what gets persisted in the sale member map.
type Role int

// Roles ordered lowest to highest privilege. Rank values 1-7 are part of the
// stored data format and must not be renumbered.
const (
	RoleGuest      Role = 1
	RoleBookKeeper Role = 2
	RoleCashier    Role = 3
	RoleClerk      Role = 4
	RoleSeller     Role = 5
	RoleSaleAdmin  Role = 6
	RoleSuperUser  Role = 7
)

// roleNames maps each role to its display string. Kept as a lookup table so
// presentation changes never touch the role definition itself.
var roleNames = map[Role]string{
	RoleGuest:      "Guest",
	RoleBookKeeper: "Book Keeper",
	RoleCashier:    "Cashier",
	RoleClerk:      "Clerk",
	RoleSeller:     "Seller",
	RoleSaleAdmin:  "Sale Administrator",
	RoleSuperUser:  "Super User",
}

// Rank returns the role's integer permission level, 1 through 7.
func (r Role) Rank() int { return int(r) }

// String returns the display name for the role; unknown ranks read as Guest.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleGuest]
}

// RoleFromRank maps a stored rank back to its role. Unknown or absent ranks
// resolve to Guest so that a missing membership entry degrades to the lowest
// privilege rather than an error.
func RoleFromRank(rank int) Role {
	r := Role(rank)
	if _, ok := roleNames[r]; ok {
		return r
	}
	return RoleGuest
}

// RoleFromName maps a display name back to its role, defaulting to Guest.
func RoleFromName(name string) Role {
	for r, n := range roleNames {
		if n == name {
			return r
		}
	}
	return RoleGuest
}

// UnrestrictedRoleNames lists the role names a non-admin actor may be offered
// when assigning members. Sale Administrator is deliberately absent so that
// admin rights can only be granted by someone who already holds them.
func UnrestrictedRoleNames() []string {
	return []string{"Guest", "Book Keeper", "Cashier", "Clerk", "Seller"}
}

// AssignableRoleNames lists role names an actor may grant on a sale. Sale
// admins (and super users) may grant every sale role including admin itself.
func AssignableRoleNames(actorIsAdmin bool) []string {
	if actorIsAdmin {
		return []string{"Guest", "Book Keeper", "Cashier", "Clerk", "Seller", "Sale Administrator"}
	}
	return UnrestrictedRoleNames()
}
