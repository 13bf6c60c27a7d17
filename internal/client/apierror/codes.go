package apierror

import "net/http"

// Code is the machine-readable error category returned by the backend.
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeAuthentication  Code = "AUTHENTICATION_ERROR"
	CodeAuthorization   Code = "AUTHORIZATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND_ERROR"
	CodeDuplicate       Code = "DUPLICATE_ERROR"
	CodePayment         Code = "PAYMENT_ERROR"
	CodeQRCode          Code = "QR_CODE_ERROR"
	CodeNotification    Code = "NOTIFICATION_ERROR"
	CodeDatabase        Code = "DATABASE_ERROR"
	CodeExternalService Code = "EXTERNAL_SERVICE_ERROR"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

// CodeForStatus picks the code used when the server did not send a textual one.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeAuthentication
	case http.StatusForbidden:
		return CodeAuthorization
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeDuplicate
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return CodeExternalService
	default:
		return CodeInternal
	}
}

// Known reports whether c is one of the codes above.
func (c Code) Known() bool {
	switch c {
	case CodeValidation, CodeAuthentication, CodeAuthorization, CodeNotFound,
		CodeDuplicate, CodePayment, CodeQRCode, CodeNotification, CodeDatabase,
		CodeExternalService, CodeInternal:
		return true
	}
	return false
}
