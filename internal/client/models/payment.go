package models

import "time"

type ServiceType string

const (
	ServiceWasteManagement ServiceType = "waste_management"
	ServiceWaterBill       ServiceType = "water_bill"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentExpired   PaymentStatus = "expired"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyTHB Currency = "THB"
)

var maxAmount = map[ServiceType]float64{
	ServiceWasteManagement: 10000,
	ServiceWaterBill:       50000,
}

// MaxAmount returns the largest payable amount for a service type.
func MaxAmount(st ServiceType) (float64, bool) {
	v, ok := maxAmount[st]
	return v, ok
}

// ValidAmount reports whether amount is positive and within the service cap.
func ValidAmount(amount float64, st ServiceType) bool {
	if amount <= 0 {
		return false
	}
	if limit, ok := maxAmount[st]; ok && amount > limit {
		return false
	}
	return true
}

type Payment struct {
	ID             string        `json:"id"`
	MunicipalityID string        `json:"municipalityId"`
	UserID         string        `json:"userId"`
	ServiceType    ServiceType   `json:"serviceType"`
	Amount         float64       `json:"amount"`
	Currency       Currency      `json:"currency"`
	Status         PaymentStatus `json:"status"`
	QRCode         *string       `json:"qrCode,omitempty"`
	DueDate        *time.Time    `json:"dueDate,omitempty"`
	PaidAt         *time.Time    `json:"paidAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type PaymentRequest struct {
	MunicipalityID string      `json:"municipalityId" validate:"required,uuid"`
	ServiceType    ServiceType `json:"serviceType" validate:"required,oneof=waste_management water_bill"`
	Amount         float64     `json:"amount" validate:"gt=0"`
	Currency       Currency    `json:"currency" validate:"required,oneof=USD EUR GBP THB"`
	UserDetails    UserDetails `json:"userDetails" validate:"required"`
	DueDate        *time.Time  `json:"dueDate,omitempty"`
}

type PaymentResponse struct {
	ID         string        `json:"id"`
	QRCode     string        `json:"qrCode"`
	Status     PaymentStatus `json:"status"`
	ExpiresAt  time.Time     `json:"expiresAt"`
	PaymentURL string        `json:"paymentUrl"`
	Payment    Payment       `json:"payment"`
}

// PaymentHistoryRequest filters the history listing; zero fields are not sent.
type PaymentHistoryRequest struct {
	MunicipalityID string        `json:"municipalityId,omitempty" validate:"omitempty,uuid"`
	ServiceType    ServiceType   `json:"serviceType,omitempty" validate:"omitempty,oneof=waste_management water_bill"`
	Status         PaymentStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed failed expired"`
	StartDate      *time.Time    `json:"startDate,omitempty"`
	EndDate        *time.Time    `json:"endDate,omitempty"`
	Limit          int           `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset         int           `json:"offset,omitempty" validate:"min=0"`
}

type PaymentHistoryResponse struct {
	Payments []Payment `json:"payments"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
}

type PaymentStatusUpdate struct {
	PaymentID       string         `json:"paymentId" validate:"required,uuid"`
	Status          PaymentStatus  `json:"status" validate:"required,oneof=pending completed failed expired"`
	TransactionData map[string]any `json:"transactionData,omitempty"`
}
