package session

import (
	"slices"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
)

// RoleHome is the landing page of a role: residents get the resident
// dashboard, staff and admins the municipal one.
func RoleHome(role models.UserRole) string {
	if role == models.RoleResident {
		return ui.PathDashboard
	}
	return ui.PathMuniDashboard
}

type Outcome int

const (
	// Loading: the state is not settled yet; show a neutral placeholder.
	Loading Outcome = iota
	Allow
	Redirect
)

type Decision struct {
	Outcome Outcome
	To      string
}

// Guard gates a page by authentication and role. An empty AllowedRoles
// admits any signed-in user; RedirectTo defaults to "/".
type Guard struct {
	AllowedRoles []models.UserRole
	RedirectTo   string
}

func (g Guard) Check(s Snapshot) Decision {
	if s.IsLoading || !s.Settled() {
		return Decision{Outcome: Loading}
	}
	if !s.IsAuthenticated() {
		to := g.RedirectTo
		if to == "" {
			to = ui.PathHome
		}
		return Decision{Outcome: Redirect, To: to}
	}
	if len(g.AllowedRoles) > 0 && !slices.Contains(g.AllowedRoles, s.User.Role) {
		return Decision{Outcome: Redirect, To: RoleHome(s.User.Role)}
	}
	return Decision{Outcome: Allow}
}

// Enforce is Check plus navigation on Redirect.
func (g Guard) Enforce(s Snapshot, nav ui.Navigator) Decision {
	d := g.Check(s)
	if d.Outcome == Redirect {
		nav.Navigate(d.To)
	}
	return d
}
