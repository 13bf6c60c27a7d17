package services

import (
	"context"

	"github.com/dmitrijs2005/municollect/internal/client/apiclient"
	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/dmitrijs2005/municollect/internal/client/models"
)

type MunicipalityService interface {
	GetMunicipalities(ctx context.Context) (*models.MunicipalityListResponse, error)
	GetMunicipalityByID(ctx context.Context, id string) (*models.Municipality, error)
	CreateMunicipality(ctx context.Context, req models.MunicipalityRequest) (*models.Municipality, error)
	UpdateMunicipality(ctx context.Context, id string, req models.MunicipalityRequest) (*models.Municipality, error)
}

type municipalityService struct {
	api API
}

func NewMunicipalityService(api API) MunicipalityService {
	return &municipalityService{api: api}
}

func (s *municipalityService) GetMunicipalities(ctx context.Context) (*models.MunicipalityListResponse, error) {
	var resp models.MunicipalityListResponse
	if err := s.api.Get(ctx, endpoints.Municipalities, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *municipalityService) GetMunicipalityByID(ctx context.Context, id string) (*models.Municipality, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	var resp models.MunicipalityResponse
	if err := s.api.Get(ctx, endpoints.MunicipalityByID, apiclient.Params{"id": id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Municipality, nil
}

func (s *municipalityService) CreateMunicipality(ctx context.Context, req models.MunicipalityRequest) (*models.Municipality, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	var resp models.MunicipalityResponse
	if err := s.api.Post(ctx, endpoints.Municipalities, req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Municipality, nil
}

func (s *municipalityService) UpdateMunicipality(ctx context.Context, id string, req models.MunicipalityRequest) (*models.Municipality, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	var resp models.MunicipalityResponse
	if err := s.api.Put(ctx, endpoints.MunicipalityByID, req, apiclient.Params{"id": id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Municipality, nil
}

func requireID(field, v string) error {
	if v == "" {
		return apierror.NewValidation(field+" is required", field, v)
	}
	return nil
}
