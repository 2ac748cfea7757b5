package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)
	writeJSON(w, http.StatusOK, toNotificationResponses(s.store.Notifications(userID)))
}

// handleMarkNotificationRead is idempotent; unknown ids succeed quietly
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	notificationID, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		sendJSONError(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	s.store.MarkNotificationRead(userID, notificationID)
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)
	s.store.MarkAllNotificationsRead(userID)
	writeJSON(w, http.StatusNoContent, nil)
}
