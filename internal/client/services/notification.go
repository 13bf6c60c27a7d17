package services

import (
	"context"

	"github.com/dmitrijs2005/municollect/internal/client/apiclient"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/dmitrijs2005/municollect/internal/client/models"
	"golang.org/x/sync/errgroup"
)

type NotificationService interface {
	SendNotification(ctx context.Context, req models.NotificationRequest) (*models.Notification, error)
	GetNotificationHistory(ctx context.Context, filters models.NotificationListRequest) (*models.NotificationListResponse, error)
	MarkNotificationAsRead(ctx context.Context, id string) error
	MarkMultipleAsRead(ctx context.Context, ids []string) error
	GetUnreadCount(ctx context.Context) (int, error)
}

type notificationService struct {
	api API
}

func NewNotificationService(api API) NotificationService {
	return &notificationService{api: api}
}

func (s *notificationService) SendNotification(ctx context.Context, req models.NotificationRequest) (*models.Notification, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	var resp models.NotificationResponse
	if err := s.api.Post(ctx, endpoints.NotificationsSend, req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Notification, nil
}

func (s *notificationService) GetNotificationHistory(ctx context.Context, f models.NotificationListRequest) (*models.NotificationListResponse, error) {
	if err := models.Validate(f); err != nil {
		return nil, err
	}
	var resp models.NotificationListResponse
	if err := s.api.Get(ctx, notificationHistoryEndpoint(f), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func notificationHistoryEndpoint(f models.NotificationListRequest) string {
	q := query{}
	q.str("userId", f.UserID)
	q.str("status", string(f.Status))
	q.positive("limit", f.Limit)
	q.positive("offset", f.Offset)
	return q.endpoint(endpoints.NotificationsHistory)
}

func (s *notificationService) MarkNotificationAsRead(ctx context.Context, id string) error {
	req := models.MarkNotificationReadRequest{NotificationID: id}
	if err := models.Validate(req); err != nil {
		return err
	}
	return s.api.Put(ctx, endpoints.NotificationRead, req, apiclient.Params{"id": id}, nil)
}

// MarkMultipleAsRead marks every id concurrently; the first failure is
// returned and cancels the calls still in flight.
func (s *notificationService) MarkMultipleAsRead(ctx context.Context, ids []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			return s.MarkNotificationAsRead(ctx, id)
		})
	}
	return g.Wait()
}

// GetUnreadCount reads the counter from a one-item history page.
func (s *notificationService) GetUnreadCount(ctx context.Context) (int, error) {
	resp, err := s.GetNotificationHistory(ctx, models.NotificationListRequest{Limit: 1})
	if err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}
