package users

import (
	"net/http"

	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

type SubmitRequest struct {
	TaskID  uint   `json:"task_id" validate:"required"`
	Details string `json:"submission_details" validate:"required"`
}

func (c *Controller) Submit(w http.ResponseWriter, r *http.Request) {
	worker, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req SubmitRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	sub, err := c.Submissions.Submit(worker, req.TaskID, req.Details)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Submission received", Data: sub})
}

// WorkerSubmissions pages through {email}'s submissions with ?page and ?limit.
func (c *Controller) WorkerSubmissions(w http.ResponseWriter, r *http.Request) {
	page := services.NewPage(utils.QueryInt(r, "page", 1), utils.QueryInt(r, "limit", 10))
	subs, page, err := c.Submissions.ByWorker(utils.PathEmail(r), page)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, map[string]interface{}{
		"submissions": subs,
		"pagination":  page,
	})
}

func (c *Controller) ApprovedSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := c.Submissions.ApprovedByWorker(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, subs)
}

func (c *Controller) WorkerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Stats.Worker(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, stats)
}

// PendingSubmissions lists submissions awaiting review by buyer {email}.
func (c *Controller) PendingSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := c.Submissions.PendingForBuyer(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, subs)
}

func (c *Controller) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	buyer, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sub, err := c.Submissions.Approve(buyer, id)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission approved", Data: sub})
}

func (c *Controller) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	buyer, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sub, err := c.Submissions.Reject(buyer, id)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission rejected", Data: sub})
}
