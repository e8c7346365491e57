package utils

// Role is the signed-in editor role. Anonymous visitors only see the
// occupancy dashboard; there is no real authentication, a PIN selects the
// role.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleViewer    Role = "viewer"
	RoleManager   Role = "manager"
	RoleAdmin     Role = "admin"
)

type Permission string

const (
	PermTenantAdd         Permission = "tenant_add"
	PermTenantEdit        Permission = "tenant_edit"
	PermTenantDelete      Permission = "tenant_delete"
	PermUnitAdd           Permission = "unit_add"
	PermUnitDelete        Permission = "unit_delete"
	PermUnitSetVacant     Permission = "unit_set_vacant"
	PermMarkPaid          Permission = "mark_paid"
	PermMarkUnpaid        Permission = "mark_unpaid"
	PermNotifyTenant      Permission = "notify_tenant"
	PermManageNotifyLists Permission = "manage_notify_lists"
	PermSetActiveMonth    Permission = "set_active_month"
	PermPrintReceipt      Permission = "print_receipt"
)

// capabilities is the full role-to-permission table. Admins can do
// everything, managers can record payments and send reminders, viewers and
// anonymous visitors can only look.
var capabilities = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermTenantAdd:         true,
		PermTenantEdit:        true,
		PermTenantDelete:      true,
		PermUnitAdd:           true,
		PermUnitDelete:        true,
		PermUnitSetVacant:     true,
		PermMarkPaid:          true,
		PermMarkUnpaid:        true,
		PermNotifyTenant:      true,
		PermManageNotifyLists: true,
		PermSetActiveMonth:    true,
		PermPrintReceipt:      true,
	},
	RoleManager: {
		PermMarkPaid:     true,
		PermNotifyTenant: true,
	},
	RoleViewer:    {},
	RoleAnonymous: {},
}

// Can reports whether a role holds a permission. Unknown roles hold none.
func Can(role Role, permission Permission) bool {
	return capabilities[role][permission]
}

// ParseRole maps a claim string to a known role, defaulting to anonymous.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleViewer, RoleManager, RoleAdmin:
		return Role(s)
	}
	return RoleAnonymous
}
