package session

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/models"
)

// Messages are the user-facing texts of the session notices.
type Messages struct {
	LoginSuccessTitle  string
	LoginFailedTitle   string
	LoginFallback      string
	InvalidCredentials string
	AccountNotFound    string

	RegisterSuccessTitle string
	RegisterFailedTitle  string
	RegisterFallback     string
	EmailTaken           string
	InvalidData          string

	LogoutTitle       string
	LogoutDescription string

	// Welcome is prefixed to the user's first name.
	Welcome string
}

func DefaultMessages() Messages {
	return Messages{
		LoginSuccessTitle:  "Signed in",
		LoginFailedTitle:   "Sign-in failed",
		LoginFallback:      "Something went wrong while signing in",
		InvalidCredentials: "Incorrect email or password",
		AccountNotFound:    "No account found for this email",

		RegisterSuccessTitle: "Registration complete",
		RegisterFailedTitle:  "Registration failed",
		RegisterFallback:     "Something went wrong while registering",
		EmailTaken:           "This email is already in use",
		InvalidData:          "Some of the entered data is invalid",

		LogoutTitle:       "Signed out",
		LogoutDescription: "Thank you for using MuniCollect",

		Welcome: "Welcome, ",
	}
}

func (m Messages) welcome(u models.User) string {
	return m.Welcome + u.FirstName
}

func (m Messages) loginError(err error) string {
	switch apierror.StatusOf(err) {
	case http.StatusUnauthorized:
		return m.InvalidCredentials
	case http.StatusNotFound:
		return m.AccountNotFound
	}
	return messageOr(err, m.LoginFallback)
}

func (m Messages) registerError(err error) string {
	switch apierror.StatusOf(err) {
	case http.StatusConflict:
		return m.EmailTaken
	case http.StatusBadRequest:
		return m.InvalidData
	}
	return messageOr(err, m.RegisterFallback)
}

func messageOr(err error, fallback string) string {
	if apiErr, ok := apierror.AsAPI(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	var netErr *apierror.NetworkError
	if errors.As(err, &netErr) && netErr.Message != "" {
		return netErr.Message
	}
	return fallback
}
