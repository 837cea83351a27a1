package service

import (
	"testing"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func paths(entries []domain.NavEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestBuildNavRoleSets(t *testing.T) {
	t.Parallel()

	t.Run("landlord sees the full management set", func(t *testing.T) {
		view := BuildNav(domain.RoleLandlord, "/dashboard", 0)
		require.Equal(t, []string{
			"/dashboard", "/properties", "/rooms", "/tenants",
			"/invoices", "/payments", "/maintenance", "/invites",
		}, paths(view.Primary))
	})

	t.Run("tenant sees the restricted set", func(t *testing.T) {
		view := BuildNav(domain.RoleTenant, "/dashboard", 0)
		require.Equal(t, []string{
			"/dashboard", "/invoices", "/maintenance", "/contract",
		}, paths(view.Primary))
	})

	t.Run("tenant never sees a landlord-only item", func(t *testing.T) {
		view := BuildNav(domain.RoleTenant, "/dashboard", 0)
		for _, p := range paths(view.Primary) {
			require.False(t, domain.IsLandlordOnly(p), p)
		}
	})

	t.Run("both roles get the utility items appended", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleLandlord, domain.RoleTenant} {
			view := BuildNav(role, "/dashboard", 0)
			require.Equal(t, []string{"/notifications", "/settings"}, paths(view.Utility))
		}
	})
}

func TestBuildNavActiveHighlighting(t *testing.T) {
	t.Parallel()

	active := func(view domain.NavView) []string {
		var out []string
		for _, e := range view.Primary {
			if e.Active {
				out = append(out, e.Path)
			}
		}
		return out
	}

	t.Run("exact match highlights", func(t *testing.T) {
		view := BuildNav(domain.RoleLandlord, "/rooms", 0)
		require.Equal(t, []string{"/rooms"}, active(view))
	})

	t.Run("nested detail page keeps its section highlighted", func(t *testing.T) {
		view := BuildNav(domain.RoleLandlord, "/rooms/123", 0)
		require.Equal(t, []string{"/rooms"}, active(view))
	})

	t.Run("prefix without separator does not highlight", func(t *testing.T) {
		view := BuildNav(domain.RoleLandlord, "/room-types", 0)
		require.Empty(t, active(view))
	})

	t.Run("utility items highlight only on their exact page", func(t *testing.T) {
		view := BuildNav(domain.RoleLandlord, "/notifications/settings", 0)
		for _, e := range view.Utility {
			require.False(t, e.Active, e.Path)
		}

		view = BuildNav(domain.RoleLandlord, "/settings", 0)
		require.True(t, view.Utility[1].Active)
	})
}

func TestBuildNavBadge(t *testing.T) {
	t.Parallel()

	badge := func(unread int) string {
		view := BuildNav(domain.RoleTenant, "/dashboard", unread)
		for _, e := range view.Utility {
			if e.Path == "/notifications" {
				return e.Badge
			}
		}
		t.Fatal("notifications item missing")
		return ""
	}

	require.Empty(t, badge(0))
	require.Equal(t, "57", badge(57))
	require.Equal(t, "99", badge(99))
	require.Equal(t, "99+", badge(150))
}

func TestBadgeLabelClampsNegative(t *testing.T) {
	t.Parallel()

	require.Empty(t, BadgeLabel(-5))
}
