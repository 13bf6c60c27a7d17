package services

import (
	"context"

	"github.com/dmitrijs2005/municollect/internal/client/apiclient"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/dmitrijs2005/municollect/internal/client/models"
)

type PaymentService interface {
	GetPaymentServices(ctx context.Context) ([]models.ServiceType, error)
	InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error)
	GetPaymentHistory(ctx context.Context, filters models.PaymentHistoryRequest) (*models.PaymentHistoryResponse, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, upd models.PaymentStatusUpdate) (*models.Payment, error)
}

type paymentService struct {
	api API
}

func NewPaymentService(api API) PaymentService {
	return &paymentService{api: api}
}

func (s *paymentService) GetPaymentServices(ctx context.Context) ([]models.ServiceType, error) {
	var list []models.ServiceType
	if err := s.api.Get(ctx, endpoints.PaymentsServices, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *paymentService) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	var resp models.PaymentResponse
	if err := s.api.Post(ctx, endpoints.PaymentsInitiate, req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *paymentService) GetPaymentHistory(ctx context.Context, f models.PaymentHistoryRequest) (*models.PaymentHistoryResponse, error) {
	if err := models.Validate(f); err != nil {
		return nil, err
	}
	var resp models.PaymentHistoryResponse
	if err := s.api.Get(ctx, paymentHistoryEndpoint(f), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func paymentHistoryEndpoint(f models.PaymentHistoryRequest) string {
	q := query{}
	q.str("municipalityId", f.MunicipalityID)
	q.str("serviceType", string(f.ServiceType))
	q.str("status", string(f.Status))
	q.date("startDate", f.StartDate)
	q.date("endDate", f.EndDate)
	q.positive("limit", f.Limit)
	q.positive("offset", f.Offset)
	return q.endpoint(endpoints.PaymentsHistory)
}

func (s *paymentService) GetPaymentStatus(ctx context.Context, paymentID string) (*models.Payment, error) {
	if err := requireID("paymentId", paymentID); err != nil {
		return nil, err
	}
	var p models.Payment
	if err := s.api.Get(ctx, endpoints.PaymentStatus, apiclient.Params{"id": paymentID}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *paymentService) UpdatePaymentStatus(ctx context.Context, upd models.PaymentStatusUpdate) (*models.Payment, error) {
	if err := models.Validate(upd); err != nil {
		return nil, err
	}
	var p models.Payment
	if err := s.api.Put(ctx, endpoints.PaymentStatus, upd, apiclient.Params{"id": upd.PaymentID}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
