package api

import (
	"net/http"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, total, err := h.noteSvc.ListNotifications(r.Context(), actorFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "notifications retrieved", Paginated{Items: notes, Total: total, Page: page, PageSize: pageSize})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), actorFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "notification marked as read", nil)
}
