package users

import (
	"net/http"

	"github.com/einadid/microtask-server/utils"
)

func (c *Controller) ListNotifications(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Notifications.ForUser(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, rows)
}

func (c *Controller) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := c.Notifications.UnreadCount(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, map[string]int64{"count": n})
}

func (c *Controller) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := c.Notifications.MarkAllRead(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, map[string]int64{"updated": n})
}

// DeleteNotification removes one of the caller's notifications.
func (c *Controller) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.Notifications.Delete(user.Email, id); err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Notification deleted"})
}
