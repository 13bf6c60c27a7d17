package models

import "time"

type PaymentConfig struct {
	WasteManagementFee      *float64 `json:"wasteManagementFee,omitempty"`
	WaterBillEnabled        *bool    `json:"waterBillEnabled,omitempty"`
	Currency                string   `json:"currency"`
	PaymentMethods          []string `json:"paymentMethods"`
	QRCodeExpirationMinutes int      `json:"qrCodeExpirationMinutes"`
}

type Municipality struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Code          string         `json:"code"`
	ContactEmail  *string        `json:"contactEmail,omitempty"`
	ContactPhone  *string        `json:"contactPhone,omitempty"`
	PaymentConfig *PaymentConfig `json:"paymentConfig,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type MunicipalityRequest struct {
	Name          string         `json:"name" validate:"required,min=1,max=255"`
	Code          string         `json:"code" validate:"required,municipality_code"`
	ContactEmail  *string        `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone  *string        `json:"contactPhone,omitempty" validate:"omitempty,phone"`
	PaymentConfig map[string]any `json:"paymentConfig,omitempty"`
}

type MunicipalityResponse struct {
	Municipality Municipality `json:"municipality"`
}

type MunicipalityListResponse struct {
	Municipalities []Municipality `json:"municipalities"`
	Total          int            `json:"total"`
}
