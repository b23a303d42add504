package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/middleware"
	"workdesk/api/internal/models"
	"workdesk/api/internal/service"
)

type resultResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	EmployeeID  string    `json:"employeeId"`
	Files       []string  `json:"files"`
	Notes       string    `json:"notes"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type taskResponse struct {
	ID          string           `json:"id"`
	UserID      *string          `json:"userId"`
	AssignedBy  string           `json:"assignedBy,omitempty"`
	WorkOn      *string          `json:"workOn"`
	UserName    string           `json:"userName"`
	UserEmail   string           `json:"userEmail"`
	PhoneNumber string           `json:"phoneNumber,omitempty"`
	Subject     string           `json:"subject,omitempty"`
	Message     string           `json:"message,omitempty"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	File        string           `json:"file,omitempty"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
	Results     []resultResponse `json:"results,omitempty"`
}

func toResultResponse(r models.Result) resultResponse {
	return resultResponse{
		ID:          r.ID,
		TaskID:      r.TaskID,
		EmployeeID:  r.EmployeeID,
		Files:       r.Files,
		Notes:       r.Notes,
		SubmittedAt: r.SubmittedAt,
	}
}

func toTaskResponse(t models.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		UserID:      t.SubmitterID,
		AssignedBy:  t.AssignedBy,
		WorkOn:      t.WorkOn,
		UserName:    t.SubmitterName,
		UserEmail:   t.SubmitterEmail,
		PhoneNumber: t.Phone,
		Subject:     t.Subject,
		Message:     t.Message,
		Title:       t.Title,
		Description: t.Description,
		File:        t.FileKey,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, r := range t.Results {
		resp.Results = append(resp.Results, toResultResponse(r))
	}
	return resp
}

func toTaskResponses(tasks []models.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

// SubmitTask is the direct self-submission path. Multipart with an optional
// file.
func (h HandlerSet) SubmitTask(c *gin.Context) {
	fileKey, ok := h.saveOptionalFile(c, "file")
	if !ok {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), middleware.Actor(c), service.CreateTaskInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		FileKey:     fileKey,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "task submitted", "task": toTaskResponse(task)})
}

func (h HandlerSet) UserTasks(c *gin.Context) {
	tasks, err := h.tasks.ListFor(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)})
}

func (h HandlerSet) UserProjects(c *gin.Context) {
	tasks, err := h.tasks.ListSubmitted(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)})
}

func (h HandlerSet) EmployeeTasks(c *gin.Context) {
	tasks, err := h.tasks.ListFor(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)})
}

func (h HandlerSet) AdminTasks(c *gin.Context) {
	tasks, err := h.tasks.ListFor(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)})
}

func (h HandlerSet) GetTask(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

type acceptRequestBody struct {
	RequestType string `json:"requestType" binding:"required"`
}

func (h HandlerSet) AcceptRequest(c *gin.Context) {
	var body acceptRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.AcceptRequest(
		c.Request.Context(),
		middleware.Actor(c),
		c.Param("id"),
		models.RequestKind(body.RequestType),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "request accepted and task created",
		"task":    toTaskResponse(task),
	})
}

type assignTaskBody struct {
	UserID string `json:"userId"`
	WorkOn string `json:"workOn"`
}

func (h HandlerSet) AssignTask(c *gin.Context) {
	var body assignTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Assign(c.Request.Context(), middleware.Actor(c), c.Param("id"), service.AssignInput{
		OwnerID:  body.UserID,
		WorkerID: body.WorkOn,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task assigned", "task": toTaskResponse(task)})
}

type updateTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

func (h HandlerSet) UpdateTask(c *gin.Context) {
	var body updateTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), service.UpdateTaskInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task updated", "task": toTaskResponse(task)})
}

func (h HandlerSet) DeleteTask(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

type dueDateBody struct {
	DueDate string `json:"dueDate" binding:"required"`
}

func (h HandlerSet) UpdateDueDate(c *gin.Context) {
	var body dueDateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	due := parseDate(body.DueDate)
	if due == nil {
		h.respondError(c, apperr.ErrInvalidInput)
		return
	}

	task, err := h.tasks.SetDueDate(c.Request.Context(), middleware.Actor(c), c.Param("taskId"), *due)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "task": toTaskResponse(task)})
}
