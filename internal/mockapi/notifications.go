package mockapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/common"
)

func (s *Service) SendNotification(ctx context.Context, c Caller, req models.NotificationRequest) (*models.Notification, error) {
	if !c.staff() {
		return nil, fmt.Errorf("send notification: %w", common.ErrForbidden)
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.store.UserByID(req.UserID); err != nil {
		return nil, err
	}

	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Type:      models.NotificationType(req.Type),
		Title:     req.Title,
		Message:   req.Message,
		Status:    models.NotificationSent,
		Data:      req.Data,
		CreatedAt: s.nowUTC(),
	}
	s.store.CreateNotification(n)
	return &n, nil
}

// NotificationHistory lists the caller's notifications. Staff may name
// another user with UserID.
func (s *Service) NotificationHistory(ctx context.Context, c Caller, f models.NotificationListRequest) (*models.NotificationListResponse, error) {
	if err := models.Validate(f); err != nil {
		return nil, err
	}

	userID := c.UserID
	if f.UserID != "" && f.UserID != c.UserID {
		if !c.staff() {
			return nil, fmt.Errorf("notification history: %w", common.ErrForbidden)
		}
		userID = f.UserID
	}

	mine := s.store.Notifications(func(n models.Notification) bool { return n.UserID == userID })

	unread := 0
	filtered := make([]models.Notification, 0, len(mine))
	for _, n := range mine {
		if n.Status != models.NotificationRead {
			unread++
		}
		if f.Status == "" || n.Status == f.Status {
			filtered = append(filtered, n)
		}
	}

	return &models.NotificationListResponse{
		Notifications: paginate(filtered, f.Limit, f.Offset),
		Total:         len(filtered),
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks one of the caller's notifications read. Marking twice is
// harmless.
func (s *Service) MarkRead(ctx context.Context, c Caller, id string, req models.MarkNotificationReadRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}
	if req.NotificationID != id {
		return fmt.Errorf("notification id does not match path: %w", common.ErrInvalidState)
	}

	now := s.nowUTC()
	_, err := s.store.UpdateNotification(id, func(n *models.Notification) error {
		if n.UserID != c.UserID {
			return fmt.Errorf("notification %s: %w", id, common.ErrNotFound)
		}
		if n.Status != models.NotificationRead {
			n.Status = models.NotificationRead
			n.ReadAt = ptr(now)
		}
		return nil
	})
	return err
}

func ptr(t time.Time) *time.Time { return &t }
