package service

import (
	"strconv"
	"strings"

	"github.com/homeeasy/portal/internal/portal/domain"
)

// badgeCap is the largest unread count the badge renders exactly.
const badgeCap = 99

// Landlord navigation items. Order is rendering order.
var landlordNavItems = []domain.NavItem{
	{Path: "/dashboard", Label: "Overview", Icon: domain.IconDashboard},
	{Path: "/properties", Label: "Properties", Icon: domain.IconBuilding},
	{Path: "/rooms", Label: "Rooms", Icon: domain.IconDoor},
	{Path: "/tenants", Label: "Tenants", Icon: domain.IconPeople},
	{Path: "/invoices", Label: "Invoices", Icon: domain.IconInvoice},
	{Path: "/payments", Label: "Payments", Icon: domain.IconWallet},
	{Path: "/maintenance", Label: "Maintenance", Icon: domain.IconWrench},
	{Path: "/invites", Label: "Invites", Icon: domain.IconEnvelope},
}

// Tenant navigation items.
var tenantNavItems = []domain.NavItem{
	{Path: "/dashboard", Label: "Overview", Icon: domain.IconDashboard},
	{Path: "/invoices", Label: "Invoices", Icon: domain.IconInvoice},
	{Path: "/maintenance", Label: "Maintenance", Icon: domain.IconWrench},
	{Path: "/contract", Label: "Contract", Icon: domain.IconContract},
}

// Utility items shown to every role, after the primary set.
var utilityNavItems = []domain.NavItem{
	{Path: "/notifications", Label: "Notifications", Icon: domain.IconBell},
	{Path: "/settings", Label: "Settings", Icon: domain.IconGear},
}

// BuildNav derives the sidebar for one render. It is a pure function of
// the role, the current route path and the unread counter.
func BuildNav(role domain.Role, currentPath string, unread int) domain.NavView {
	items := tenantNavItems
	if role == domain.RoleLandlord {
		items = landlordNavItems
	}

	view := domain.NavView{
		Primary: make([]domain.NavEntry, 0, len(items)),
		Utility: make([]domain.NavEntry, 0, len(utilityNavItems)),
	}

	for _, item := range items {
		view.Primary = append(view.Primary, domain.NavEntry{
			NavItem: item,
			Active:  isActive(item.Path, currentPath),
		})
	}

	for _, item := range utilityNavItems {
		entry := domain.NavEntry{
			NavItem: item,
			// Utility items only highlight on their exact page.
			Active: currentPath == item.Path,
		}
		if item.Path == "/notifications" {
			entry.Badge = BadgeLabel(unread)
		}
		view.Utility = append(view.Utility, entry)
	}

	return view
}

// isActive reports whether a primary nav item highlights for the current
// path. Nested detail pages stay highlighted under their section, but the
// prefix match requires a path separator: "/room-types" does not light up
// "/rooms".
func isActive(itemPath, currentPath string) bool {
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// BadgeLabel renders an unread count for the notifications badge: empty
// for zero, exact below the cap, "99+" above it.
func BadgeLabel(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > badgeCap:
		return "99+"
	default:
		return strconv.Itoa(count)
	}
}
