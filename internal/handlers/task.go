package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/morgancollado/mocingbird-task-manager/internal/requestdata"
	"github.com/morgancollado/mocingbird-task-manager/internal/services"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// taskRequest is the allow-listed request shape for creates and partial
// updates; unknown fields are dropped at decode time, and owner_id is not a
// thing a client can say.
type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

func (th *TaskHandler) Index(c *gin.Context) {
	principal := requestdata.GetPrincipal(c.Request.Context())
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	tasks, err := th.taskService.List(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (th *TaskHandler) Show(c *gin.Context) {
	principal := requestdata.GetPrincipal(c.Request.Context())
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}
	task, err := th.taskService.Get(c.Request.Context(), principal.UserID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (th *TaskHandler) Create(c *gin.Context) {
	principal := requestdata.GetPrincipal(c.Request.Context())
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := services.TaskCreateInput{Status: req.Status}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.DueDate != nil {
		due, ok := parseDueDate(c, *req.DueDate)
		if !ok {
			return
		}
		input.DueDate = due
	}

	task, err := th.taskService.Create(c.Request.Context(), principal.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (th *TaskHandler) Update(c *gin.Context) {
	principal := requestdata.GetPrincipal(c.Request.Context())
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.DueDate != nil {
		due, ok := parseDueDate(c, *req.DueDate)
		if !ok {
			return
		}
		patch.DueDate = due
	}

	task, err := th.taskService.Update(c.Request.Context(), principal.UserID, taskID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (th *TaskHandler) Destroy(c *gin.Context) {
	principal := requestdata.GetPrincipal(c.Request.Context())
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := th.taskService.Delete(c.Request.Context(), principal.UserID, taskID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseDueDate accepts a plain ISO date or a full RFC 3339 timestamp.
func parseDueDate(c *gin.Context, raw string) (*time.Time, bool) {
	if due, err := time.Parse("2006-01-02", raw); err == nil {
		return &due, true
	}
	if due, err := time.Parse(time.RFC3339, raw); err == nil {
		return &due, true
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"due date is invalid"}})
	return nil, false
}
