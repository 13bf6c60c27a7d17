// Package endpoints lists the API path templates. Placeholders of the form
// ":name" are filled from path parameters by the API client.
package endpoints

import "strings"

const (
	AuthRegister = "/api/auth/register"
	AuthLogin    = "/api/auth/login"
	AuthRefresh  = "/api/auth/refresh"
	AuthLogout   = "/api/auth/logout"

	UsersProfile        = "/api/users/profile"
	UsersMunicipalities = "/api/users/municipalities"

	Municipalities   = "/api/municipalities"
	MunicipalityByID = "/api/municipalities/:id"

	PaymentsServices = "/api/payments/services"
	PaymentsInitiate = "/api/payments/initiate"
	PaymentsHistory  = "/api/payments/history"
	PaymentStatus    = "/api/payments/:id/status"

	QRGenerate = "/api/qr/generate"
	QRDetails  = "/api/qr/:code/details"

	NotificationsSend    = "/api/notifications/send"
	NotificationsHistory = "/api/notifications/history"
	NotificationRead     = "/api/notifications/:id/read"
)

// IsAuth reports whether endpoint belongs to the authentication group, which
// is called without a prior token refresh.
func IsAuth(endpoint string) bool {
	return strings.Contains(endpoint, "/auth/")
}
