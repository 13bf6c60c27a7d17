package services

import (
	"context"

	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/dmitrijs2005/municollect/internal/client/models"
)

type UserService interface {
	GetProfile(ctx context.Context) (*models.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error)
	GetUserMunicipalities(ctx context.Context) ([]models.Municipality, error)
}

type userService struct {
	api API
}

func NewUserService(api API) UserService {
	return &userService{api: api}
}

func (s *userService) GetProfile(ctx context.Context) (*models.UserProfileResponse, error) {
	var resp models.UserProfileResponse
	if err := s.api.Get(ctx, endpoints.UsersProfile, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.api.Put(ctx, endpoints.UsersProfile, req, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserMunicipalities(ctx context.Context) ([]models.Municipality, error) {
	var list []models.Municipality
	if err := s.api.Get(ctx, endpoints.UsersMunicipalities, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
