// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/claimguru/claimguard/logging"
)

// NotificationService fans role and assignment changes out to the CRM
// front end. Delivery is currently log-only; the webhook transport is
// configured per deployment.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyRoleChange(ctx context.Context, userID, newRole string) error {
	logger.Info("Notifying role change",
		zap.String("userID", userID),
		zap.String("newRole", newRole))
	return nil
}

func (n *NotificationService) NotifyAdjusterAssignment(ctx context.Context, claimID, adjusterID string) error {
	logger.Info("Notifying adjuster assignment",
		zap.String("claimID", claimID),
		zap.String("adjusterID", adjusterID))
	return nil
}
