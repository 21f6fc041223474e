package service

import (
	"context"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) ListNotifications(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Notification, int64, error) {
	return s.noteRepo.ListForUser(ctx, actor.UserID, actor.Role, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int64) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, actor.UserID)
}
