package constants

// Global roles carried in the token's roles_global claim.
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// CalendarAdminRoles may manage categories, events, calendars and layouts.
var CalendarAdminRoles = []string{RoleAdmin, RoleOwner}
