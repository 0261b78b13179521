package users

import (
	"net/http"
	"time"

	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

type CreateTaskRequest struct {
	Title           string    `json:"task_title" validate:"required,max=200"`
	Detail          string    `json:"task_detail" validate:"required"`
	RequiredWorkers int64     `json:"required_workers" validate:"required,min=1"`
	PayableAmount   int64     `json:"payable_amount" validate:"required,min=1"`
	CompletionDate  time.Time `json:"completion_date" validate:"required"`
	SubmissionInfo  string    `json:"submission_info" validate:"required"`
	ImageURL        string    `json:"task_image_url" validate:"omitempty,url"`
}

type UpdateTaskRequest struct {
	Title          *string `json:"task_title" validate:"omitempty,max=200"`
	Detail         *string `json:"task_detail"`
	SubmissionInfo *string `json:"submission_info"`
}

func (c *Controller) AvailableTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Tasks.Available()
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, tasks)
}

func (c *Controller) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	task, err := c.Tasks.Get(id)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, task)
}

// CreateTask reserves required_workers x payable_amount coins from the buyer.
func (c *Controller) CreateTask(w http.ResponseWriter, r *http.Request) {
	buyer, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	task, err := c.Tasks.Create(buyer, services.CreateTaskInput{
		Title:           req.Title,
		Detail:          req.Detail,
		RequiredWorkers: req.RequiredWorkers,
		PayableAmount:   req.PayableAmount,
		CompletionDate:  req.CompletionDate,
		SubmissionInfo:  req.SubmissionInfo,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task created", Data: task})
}

func (c *Controller) BuyerTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Tasks.ByBuyer(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, tasks)
}

func (c *Controller) BuyerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Stats.Buyer(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, stats)
}

func (c *Controller) UpdateTask(w http.ResponseWriter, r *http.Request) {
	buyer, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	task, err := c.Tasks.Update(buyer, id, services.UpdateTaskInput{
		Title:          req.Title,
		Detail:         req.Detail,
		SubmissionInfo: req.SubmissionInfo,
	})
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// DeleteTask removes the task and refunds the unspent escrow.
func (c *Controller) DeleteTask(w http.ResponseWriter, r *http.Request) {
	buyer, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	refunded, err := c.Tasks.Delete(buyer, id)
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
