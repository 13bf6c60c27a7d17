package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
	"github.com/dmitrijs2005/municollect/internal/timex"
)

func unreadNotice(n int) ui.Notice {
	return ui.Notice{
		Level:       ui.LevelInfo,
		Title:       "Notifications",
		Description: fmt.Sprintf("You have %d unread notifications", n),
	}
}

// Notifications lists notifications; "unread" limits to unread ones.
func (a *App) Notifications(ctx context.Context, args []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	var f models.NotificationListRequest
	if len(args) > 0 && args[0] == "unread" {
		f.Status = models.NotificationSent
	}

	resp, err := a.api.Notification.GetNotificationHistory(ctx, f)
	if err != nil {
		return a.fail(ctx, err, "notifications")
	}
	for _, n := range resp.Notifications {
		mark := " "
		if n.Status != models.NotificationRead {
			mark = "*"
		}
		a.printf("%s %s  %s  %s: %s\n", mark, n.ID, timex.FormatISO(n.CreatedAt), n.Title, n.Message)
	}
	a.printf("%d notifications, %d unread\n", resp.Total, resp.UnreadCount)
	return nil
}

// Read marks the given notifications read.
func (a *App) Read(ctx context.Context, args []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	if len(args) == 0 {
		return a.usage("read <notification-id>...")
	}
	if err := a.api.Notification.MarkMultipleAsRead(ctx, args); err != nil {
		return a.fail(ctx, err, "read")
	}
	a.printf("Marked %d as read\n", len(args))
	return nil
}

func (a *App) Unread(ctx context.Context, _ []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	n, err := a.api.Notification.GetUnreadCount(ctx)
	if err != nil {
		return a.fail(ctx, err, "unread")
	}
	a.term.Notify(unreadNotice(n))
	return nil
}

// Send delivers a system notification to a user. Staff only.
func (a *App) Send(ctx context.Context, args []string) error {
	if err := a.guard(staffRoles...); err != nil {
		return err
	}
	if len(args) != 1 {
		return a.usage("send <user-id>")
	}
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	message, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}

	n, err := a.api.Notification.SendNotification(ctx, models.NotificationRequest{
		UserID:  args[0],
		Type:    string(models.NotificationSystemUpdate),
		Title:   title,
		Message: message,
	})
	if err != nil {
		return a.fail(ctx, err, "send")
	}
	a.printf("Notification %s sent\n", n.ID)
	return nil
}
