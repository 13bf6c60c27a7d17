package mockapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/common"
	"github.com/dmitrijs2005/municollect/internal/mockapi/store"
)

const qrImageSize = 256

var paymentServices = []models.ServiceType{models.ServiceWasteManagement, models.ServiceWaterBill}

// transitions lists the statuses a payment may move to from each status.
var transitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:   {models.PaymentCompleted, models.PaymentFailed, models.PaymentExpired},
	models.PaymentFailed:    {models.PaymentPending, models.PaymentExpired},
	models.PaymentExpired:   {models.PaymentPending},
	models.PaymentCompleted: nil,
}

func (s *Service) PaymentServices(ctx context.Context) []models.ServiceType {
	return slices.Clone(paymentServices)
}

func (s *Service) InitiatePayment(ctx context.Context, c Caller, req models.PaymentRequest) (*models.PaymentResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	m, err := s.store.Municipality(req.MunicipalityID)
	if err != nil {
		return nil, err
	}
	if req.ServiceType == models.ServiceWaterBill && m.PaymentConfig != nil &&
		m.PaymentConfig.WaterBillEnabled != nil && !*m.PaymentConfig.WaterBillEnabled {
		return nil, fmt.Errorf("water bill payments are disabled for %s: %w", m.Code, common.ErrInvalidState)
	}

	now := s.nowUTC()
	p := models.Payment{
		ID:             uuid.NewString(),
		MunicipalityID: m.ID,
		UserID:         c.UserID,
		ServiceType:    req.ServiceType,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         models.PaymentPending,
		DueDate:        req.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.store.CreatePayment(p)
	s.linkMunicipality(c.UserID, m.ID)

	qr, err := s.issueQRCode(p, m)
	if err != nil {
		return nil, err
	}
	p, err = s.store.Payment(p.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "payment initiated", "payment_id", p.ID, "amount", p.Amount, "currency", p.Currency)
	return &models.PaymentResponse{
		ID:         p.ID,
		QRCode:     qr.QRCode,
		Status:     p.Status,
		ExpiresAt:  qr.ExpiresAt,
		PaymentURL: "municollect://pay/" + qr.QRCode,
		Payment:    p,
	}, nil
}

func (s *Service) PaymentHistory(ctx context.Context, c Caller, f models.PaymentHistoryRequest) (*models.PaymentHistoryResponse, error) {
	if err := models.Validate(f); err != nil {
		return nil, err
	}

	all := s.store.Payments(func(p models.Payment) bool {
		switch {
		case !c.staff() && p.UserID != c.UserID:
			return false
		case f.MunicipalityID != "" && p.MunicipalityID != f.MunicipalityID:
			return false
		case f.ServiceType != "" && p.ServiceType != f.ServiceType:
			return false
		case f.Status != "" && p.Status != f.Status:
			return false
		case f.StartDate != nil && p.CreatedAt.Before(*f.StartDate):
			return false
		case f.EndDate != nil && p.CreatedAt.After(*f.EndDate):
			return false
		}
		return true
	})

	page := paginate(all, f.Limit, f.Offset)
	_, offset := models.PageBounds(f.Limit, f.Offset)
	return &models.PaymentHistoryResponse{
		Payments: page,
		Total:    len(all),
		HasMore:  offset+len(page) < len(all),
	}, nil
}

func (s *Service) PaymentStatus(ctx context.Context, c Caller, id string) (*models.Payment, error) {
	p, err := s.store.Payment(id)
	if err != nil {
		return nil, err
	}
	if !c.staff() && p.UserID != c.UserID {
		// others' payments are reported as missing
		return nil, fmt.Errorf("payment %s: %w", id, common.ErrNotFound)
	}
	return &p, nil
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, c Caller, upd models.PaymentStatusUpdate) (*models.Payment, error) {
	if !c.staff() {
		return nil, fmt.Errorf("update payment status: %w", common.ErrForbidden)
	}
	if err := models.Validate(upd); err != nil {
		return nil, err
	}

	now := s.nowUTC()
	p, err := s.store.UpdatePayment(upd.PaymentID, func(p *models.Payment) error {
		if !slices.Contains(transitions[p.Status], upd.Status) {
			return fmt.Errorf("invalid status transition from %s to %s: %w", p.Status, upd.Status, common.ErrInvalidState)
		}
		p.Status = upd.Status
		p.UpdatedAt = now
		if upd.Status == models.PaymentCompleted {
			p.PaidAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyPaymentOutcome(p)
	s.log.Info(ctx, "payment status updated", "payment_id", p.ID, "status", p.Status)
	return &p, nil
}

func (s *Service) notifyPaymentOutcome(p models.Payment) {
	var (
		typ   models.NotificationType
		title string
	)
	switch p.Status {
	case models.PaymentCompleted:
		typ, title = models.NotificationPaymentConfirmation, "Payment received"
	case models.PaymentFailed:
		typ, title = models.NotificationPaymentFailed, "Payment failed"
	default:
		return
	}
	s.store.CreateNotification(models.Notification{
		ID:        uuid.NewString(),
		UserID:    p.UserID,
		Type:      typ,
		Title:     title,
		Message:   fmt.Sprintf("%s payment of %.2f %s is %s.", p.ServiceType, p.Amount, p.Currency, p.Status),
		Status:    models.NotificationSent,
		Data:      map[string]any{"paymentId": p.ID},
		CreatedAt: s.nowUTC(),
	})
}

// --- QR codes ---

func (s *Service) GenerateQRCode(ctx context.Context, c Caller, req models.QRCodeRequest) (*models.QRCodeResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	p, err := s.PaymentStatus(ctx, c, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentPending {
		return nil, fmt.Errorf("cannot generate QR code for payment with status %s: %w", p.Status, common.ErrInvalidState)
	}
	m, err := s.store.Municipality(p.MunicipalityID)
	if err != nil {
		return nil, err
	}
	return s.issueQRCode(*p, m)
}

func (s *Service) issueQRCode(p models.Payment, m models.Municipality) (*models.QRCodeResponse, error) {
	ttl := s.qrTTL
	if m.PaymentConfig != nil && m.PaymentConfig.QRCodeExpirationMinutes > 0 {
		ttl = time.Duration(m.PaymentConfig.QRCodeExpirationMinutes) * time.Minute
	}

	code, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	data := models.QRCodeData{
		PaymentID:      p.ID,
		MunicipalityID: p.MunicipalityID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		ServiceType:    p.ServiceType,
		ExpiresAt:      s.nowUTC().Add(ttl),
	}

	image, err := renderQRCode(code, data)
	if err != nil {
		return nil, err
	}

	s.store.SaveQRCode(store.QRRecord{Code: code, Data: data})
	if _, err := s.store.UpdatePayment(p.ID, func(p *models.Payment) error {
		p.QRCode = &code
		return nil
	}); err != nil {
		return nil, err
	}

	return &models.QRCodeResponse{QRCode: code, Image: image, Data: data, ExpiresAt: data.ExpiresAt}, nil
}

// renderQRCode encodes the code and its payment data as a PNG data URI.
func renderQRCode(code string, data models.QRCodeData) (string, error) {
	payload, err := json.Marshal(struct {
		Code string `json:"code"`
		models.QRCodeData
	}{code, data})
	if err != nil {
		return "", fmt.Errorf("qr payload: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// QRCodeDetails looks a code up. A code that exists but can no longer be
// paid is reported with Valid=false rather than as an error.
func (s *Service) QRCodeDetails(ctx context.Context, code string) (*models.QRCodeValidationResponse, error) {
	rec, err := s.store.QRCode(code)
	if err != nil {
		return nil, err
	}
	p, err := s.store.Payment(rec.Data.PaymentID)
	if err != nil {
		return nil, err
	}

	valid := p.Status == models.PaymentPending &&
		p.QRCode != nil && *p.QRCode == code &&
		!rec.Data.Expired(s.nowUTC())

	data := rec.Data
	return &models.QRCodeValidationResponse{Valid: valid, Data: &data, Payment: &p}, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	limit, offset = models.PageBounds(limit, offset)
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
