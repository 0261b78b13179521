package admins

import (
	"net/http"

	"github.com/einadid/microtask-server/utils"
)

func (c *Controller) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Tasks.All()
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, tasks)
}

// DeleteTask removes any task; the owner gets the unspent escrow back.
func (c *Controller) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	refunded, err := c.Tasks.AdminDelete(id)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Task deleted",
		Data:    map[string]int64{"refunded": refunded},
	})
}
