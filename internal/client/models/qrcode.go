package models

import "time"

type QRCodeData struct {
	PaymentID      string      `json:"paymentId"`
	MunicipalityID string      `json:"municipalityId"`
	Amount         float64     `json:"amount"`
	Currency       Currency    `json:"currency"`
	ServiceType    ServiceType `json:"serviceType"`
	ExpiresAt      time.Time   `json:"expiresAt"`
}

// Expired reports whether the code is no longer payable at now.
func (d QRCodeData) Expired(now time.Time) bool {
	return !d.ExpiresAt.After(now)
}

type QRCodeRequest struct {
	PaymentID string `json:"paymentId" validate:"required,uuid"`
}

// QRCodeResponse carries the code string and, when rendered, a PNG of it as
// a data URI.
type QRCodeResponse struct {
	QRCode    string     `json:"qrCode"`
	Image     string     `json:"image,omitempty"`
	Data      QRCodeData `json:"data"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

type QRCodeValidationRequest struct {
	Code string `json:"code" validate:"required"`
}

type QRCodeValidationResponse struct {
	Valid   bool        `json:"valid"`
	Data    *QRCodeData `json:"data,omitempty"`
	Payment *Payment    `json:"payment,omitempty"`
}
