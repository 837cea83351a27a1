package domain

import (
	"encoding/json"
	"fmt"
)

// Icon is a closed set of renderable navigation icons. Keeping it an enum
// with a lookup table keeps the set exhaustive-checkable; there is no
// runtime icon dispatch.
type Icon int

const (
	IconDashboard Icon = iota
	IconBuilding
	IconDoor
	IconPeople
	IconInvoice
	IconWallet
	IconWrench
	IconEnvelope
	IconContract
	IconBell
	IconGear
)

// IconMeta describes how an icon renders: the asset name the web client
// resolves and the accent colour used when the item is active.
type IconMeta struct {
	Name   string `json:"name"`
	Accent string `json:"accent"`
}

var iconMeta = map[Icon]IconMeta{
	IconDashboard: {Name: "dashboard", Accent: "#2563EB"},
	IconBuilding:  {Name: "building", Accent: "#2563EB"},
	IconDoor:      {Name: "door", Accent: "#2563EB"},
	IconPeople:    {Name: "people", Accent: "#2563EB"},
	IconInvoice:   {Name: "invoice", Accent: "#2563EB"},
	IconWallet:    {Name: "wallet", Accent: "#2563EB"},
	IconWrench:    {Name: "wrench", Accent: "#2563EB"},
	IconEnvelope:  {Name: "envelope", Accent: "#2563EB"},
	IconContract:  {Name: "contract", Accent: "#2563EB"},
	IconBell:      {Name: "bell", Accent: "#EF4444"},
	IconGear:      {Name: "gear", Accent: "#2563EB"},
}

// Meta returns the render metadata for the icon.
func (i Icon) Meta() IconMeta {
	m, ok := iconMeta[i]
	if !ok {
		return IconMeta{Name: "unknown"}
	}
	return m
}

// MarshalJSON renders the icon as its metadata object.
func (i Icon) MarshalJSON() ([]byte, error) {
	m := i.Meta()
	return fmt.Appendf(nil, `{"name":%q,"accent":%q}`, m.Name, m.Accent), nil
}

// UnmarshalJSON resolves an icon from its metadata object by name.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var m IconMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for icon, meta := range iconMeta {
		if meta.Name == m.Name {
			*i = icon
			return nil
		}
	}
	return fmt.Errorf("unknown icon %q", m.Name)
}

// NavItem is a single navigation destination. Item order within a role's
// list is rendering order.
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  Icon   `json:"icon"`
}

// NavEntry is a NavItem resolved against the current route and unread
// counter: whether it renders highlighted and what its badge shows.
type NavEntry struct {
	NavItem

	Active bool   `json:"active"`
	Badge  string `json:"badge,omitempty"`
}

// NavView is the complete sidebar for one render: the role's primary
// items followed by the role-independent utility items.
type NavView struct {
	Primary []NavEntry `json:"primary"`
	Utility []NavEntry `json:"utility"`
}
