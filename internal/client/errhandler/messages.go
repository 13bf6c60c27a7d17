package errhandler

import (
	"net/http"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
)

const (
	unexpectedMessage = "An unexpected error occurred"
	networkMessage    = "Network connection failed. Please check your internet connection and try again."
)

var codeMessages = map[apierror.Code]string{
	apierror.CodeValidation:      "Please check your input and try again.",
	apierror.CodeAuthentication:  "Please log in to continue.",
	apierror.CodeAuthorization:   "You do not have permission to perform this action.",
	apierror.CodeNotFound:        "The requested resource was not found.",
	apierror.CodeDuplicate:       "This item already exists.",
	apierror.CodePayment:         "Payment processing failed. Please try again.",
	apierror.CodeQRCode:          "QR code is invalid or expired.",
	apierror.CodeNotification:    "Failed to process notification.",
	apierror.CodeDatabase:        "A database error occurred. Please try again later.",
	apierror.CodeExternalService: "External service is temporarily unavailable.",
	apierror.CodeInternal:        "An internal server error occurred.",
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request. Please check your input.",
	http.StatusUnauthorized:        "Authentication required. Please log in.",
	http.StatusForbidden:           "Access denied. You do not have permission.",
	http.StatusNotFound:            "Resource not found.",
	http.StatusConflict:            "Conflict detected. The resource may already exist.",
	http.StatusUnprocessableEntity: "Unable to process the request.",
	http.StatusInternalServerError: "Server error. Please try again later.",
	http.StatusServiceUnavailable:  "Service temporarily unavailable.",
}
