package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/client/session"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
)

var (
	errNotAllowed = errors.New("command not allowed")
	errUsage      = errors.New("usage")
)

var (
	staffRoles = []models.UserRole{models.RoleMunicipalStaff, models.RoleAdmin}
	adminRoles = []models.UserRole{models.RoleAdmin}
)

// guard runs the route guard for a command. Anonymous users are sent to the
// login page, users with the wrong role to their own dashboard.
func (a *App) guard(roles ...models.UserRole) error {
	g := session.Guard{AllowedRoles: roles, RedirectTo: ui.PathLogin}
	d := g.Enforce(a.session.Snapshot(), a.term)

	switch d.Outcome {
	case session.Allow:
		return nil
	case session.Loading:
		a.printf("Still signing in, try again in a moment\n")
	default:
		if a.isLoggedIn() {
			a.printf("This command is for %s only\n", roleList(roles))
		} else {
			a.printf("Please log in first\n")
		}
	}
	return errNotAllowed
}

func roleList(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = strings.ReplaceAll(string(r), "_", " ")
	}
	return strings.Join(names, " and ")
}

func (a *App) usage(text string) error {
	a.printf("Usage: %s\n", text)
	return fmt.Errorf("%w: %s", errUsage, text)
}
