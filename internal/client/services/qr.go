package services

import (
	"context"

	"github.com/dmitrijs2005/municollect/internal/client/apiclient"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/dmitrijs2005/municollect/internal/client/models"
)

type QRService interface {
	GenerateQRCode(ctx context.Context, req models.QRCodeRequest) (*models.QRCodeResponse, error)
	GetQRCodeDetails(ctx context.Context, code string) (*models.QRCodeValidationResponse, error)
	ValidateQRCode(ctx context.Context, req models.QRCodeValidationRequest) (*models.QRCodeValidationResponse, error)
}

type qrService struct {
	api API
}

func NewQRService(api API) QRService {
	return &qrService{api: api}
}

func (s *qrService) GenerateQRCode(ctx context.Context, req models.QRCodeRequest) (*models.QRCodeResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	var resp models.QRCodeResponse
	if err := s.api.Post(ctx, endpoints.QRGenerate, req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *qrService) GetQRCodeDetails(ctx context.Context, code string) (*models.QRCodeValidationResponse, error) {
	if err := requireID("code", code); err != nil {
		return nil, err
	}
	var resp models.QRCodeValidationResponse
	if err := s.api.Get(ctx, endpoints.QRDetails, apiclient.Params{"code": code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateQRCode has no endpoint of its own; the details lookup answers it.
func (s *qrService) ValidateQRCode(ctx context.Context, req models.QRCodeValidationRequest) (*models.QRCodeValidationResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	return s.GetQRCodeDetails(ctx, req.Code)
}
