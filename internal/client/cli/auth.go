package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/municollect/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account details and signs the new user in.
// Failures are shown by the session as notices.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	first, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone (optional)", a.out)
	if err != nil {
		return err
	}

	req := models.RegisterRequest{Email: email, Password: string(password), FirstName: first, LastName: last}
	if phone != "" {
		req.Phone = &phone
	}
	return a.session.Register(ctx, req)
}

// Login signs in. The email may be given as the first argument.
func (a *App) Login(ctx context.Context, args []string) error {
	var (
		email string
		err   error
	)
	if len(args) > 0 {
		email = args[0]
	} else if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	return a.session.Login(ctx, strings.TrimSpace(email), string(password))
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	a.session.Logout(ctx)
	return nil
}

// Profile prints the signed-in user and their municipalities.
func (a *App) Profile(ctx context.Context, _ []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	p, err := a.api.User.GetProfile(ctx)
	if err != nil {
		return a.fail(ctx, err, "profile")
	}

	u := p.User
	a.printf("%s <%s>\n", u.FullName(), u.Email)
	a.printf("  role:  %s\n", u.Role)
	if u.Phone != nil {
		a.printf("  phone: %s\n", *u.Phone)
	}
	for _, m := range p.Municipalities {
		a.printf("  municipality: %s (%s)\n", m.Name, m.Code)
	}
	return nil
}

// EditProfile prompts for new names and phone; empty answers keep the
// current value.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	if err := a.guard(); err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	for _, f := range []struct {
		prompt string
		dst    **string
	}{
		{"First name (empty to keep)", &req.FirstName},
		{"Last name (empty to keep)", &req.LastName},
		{"Phone (empty to keep)", &req.Phone},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}

	u, err := a.api.User.UpdateProfile(ctx, req)
	if err != nil {
		return a.fail(ctx, err, "editprofile")
	}
	a.printf("Profile updated: %s\n", u.FullName())
	return nil
}
