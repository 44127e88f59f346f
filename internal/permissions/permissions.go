// Package permissions answers whether a user may perform an action on a sale.
//
// Every predicate is pure: it returns a plain boolean and never an error.
// Callers translate a false into a user-facing rejection. All per-sale checks
// short-circuit true for super users regardless of membership. Each capability
// carries its own role floor; the floors are not one linear ladder (a book
// keeper reads finances but cannot sell items).
package permissions

import "github.com/garagebuddy/garagebuddy/internal/model"

// Role floors per capability.
const (
	assignRoleFloor     = model.RoleSaleAdmin
	closeSaleFloor      = model.RoleSaleAdmin
	updateCatalogFloor  = model.RoleSeller
	updatePricesFloor   = model.RoleSeller
	advertiseFloor      = model.RoleSeller
	printTagsFloor      = model.RoleClerk
	sellItemsFloor      = model.RoleCashier
	createReceiptsFloor = model.RoleCashier
	accessFinancesFloor = model.RoleBookKeeper
)

// meets reports whether the user's role on the sale reaches the floor, with
// the super-user override applied.
func meets(sale *model.Sale, user *model.User, floor model.Role) bool {
	if user.SuperUser {
		return true
	}
	return sale.PermissionRank(user.Email) >= floor.Rank()
}

// CanSetSuperUser: only super users may grant or revoke super-user status.
func CanSetSuperUser(user *model.User) bool {
	return user.SuperUser
}

// CanUnlockProfile: only super users may reset another account's login attempts.
func CanUnlockProfile(user *model.User) bool {
	return user.SuperUser
}

// CanAssignRole: sale admins assign or change member roles on their sale.
func CanAssignRole(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, assignRoleFloor)
}

// CanCloseSale: sale admins close their sale.
func CanCloseSale(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, closeSaleFloor)
}

// CanUpdateCatalog: sellers and above add and edit items.
func CanUpdateCatalog(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, updateCatalogFloor)
}

// CanUpdatePrices: sellers and above change prices.
func CanUpdatePrices(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, updatePricesFloor)
}

// CanAdvertise: sellers and above advertise the sale.
func CanAdvertise(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, advertiseFloor)
}

// CanPrintTags: clerks and above print price tags.
func CanPrintTags(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, printTagsFloor)
}

// CanSellItems: cashiers and above check out items. Book keepers are below
// this floor even though they can read finances.
func CanSellItems(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, sellItemsFloor)
}

// CanCreateReceipts: cashiers and above create receipts.
func CanCreateReceipts(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, createReceiptsFloor)
}

// CanAccessFinances: book keepers and above read financial reports.
func CanAccessFinances(sale *model.Sale, user *model.User) bool {
	return meets(sale, user, accessFinancesFloor)
}
